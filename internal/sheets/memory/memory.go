// Package memory provides an in-memory implementation of the spreadsheet
// ports, used for local development and in service tests.
package memory

import (
	"context"
	"sync"

	"bilancio/internal/core"
	ports "bilancio/internal/sheets"
)

// Store keeps ledger, budget and category data in process memory.
type Store struct {
	mu         sync.RWMutex
	ledger     []core.Transaction
	budget     []core.BudgetRow
	categories core.CategorySet

	appendErr error
}

var (
	_ ports.LedgerReader   = (*Store)(nil)
	_ ports.LedgerAppender = (*Store)(nil)
	_ ports.BudgetReader   = (*Store)(nil)
	_ ports.CategoryReader = (*Store)(nil)
)

// New creates an empty store with only the sentinel category defined.
func New() *Store {
	return &Store{categories: core.NewCategorySet(nil, nil)}
}

// ListTransactions returns a copy of the ledger.
func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.ledger))
	copy(out, s.ledger)
	return out, nil
}

// AppendTransactions adds transactions to the end of the ledger.
func (s *Store) AppendTransactions(ctx context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.ledger = append(s.ledger, txs...)
	return nil
}

// ListBudgetRows returns a copy of the budget rows.
func (s *Store) ListBudgetRows(ctx context.Context) ([]core.BudgetRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.BudgetRow, len(s.budget))
	copy(out, s.budget)
	return out, nil
}

// Categories returns the configured category set.
func (s *Store) Categories(ctx context.Context) (core.CategorySet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories, nil
}

// SetBudgetRows replaces the budget table.
func (s *Store) SetBudgetRows(rows []core.BudgetRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = append([]core.BudgetRow(nil), rows...)
}

// SetCategories replaces the category lists; the sentinel is added when
// missing.
func (s *Store) SetCategories(income, expense []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = core.NewCategorySet(income, expense)
}

// SetAppendError makes every subsequent AppendTransactions call fail,
// simulating an unavailable spreadsheet.
func (s *Store) SetAppendError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

// Len reports the current ledger size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ledger)
}
