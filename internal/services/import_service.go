// Package services orchestrates the engine across the mailbox, the staging
// database, the message queue and the spreadsheet.
package services

import (
	"context"
	"errors"
	"fmt"

	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/mail"
	"bilancio/internal/sheets"
	"bilancio/internal/storage"
)

// Staging is the slice of the repository the importer needs.
type Staging interface {
	StageTransaction(ctx context.Context, tx core.Transaction) (int64, error)
	ListFingerprints(ctx context.Context) (map[string]struct{}, error)
}

// SyncPublisher asks the worker to push one staged transaction to the
// spreadsheet. A nil publisher is allowed: transactions stay staged and the
// worker's catch-up pass picks them up.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported     int `json:"imported"`
	Unrecognized int `json:"unrecognized"`
	Duplicates   int `json:"duplicates"`
	Skipped      int `json:"skipped"`
}

// ImportService turns mailbox notifications into staged transactions.
type ImportService struct {
	mailbox    mail.Source
	categories sheets.CategoryReader
	ledger     sheets.LedgerReader
	staging    Staging
	publisher  SyncPublisher
	extractor  core.Extractor
	fetchLimit int
	logger     *log.Logger
}

func NewImportService(mailbox mail.Source, categories sheets.CategoryReader, ledger sheets.LedgerReader, staging Staging, publisher SyncPublisher, bankToken string, fetchLimit int, logger *log.Logger) *ImportService {
	return &ImportService{
		mailbox:    mailbox,
		categories: categories,
		ledger:     ledger,
		staging:    staging,
		publisher:  publisher,
		extractor:  core.NewExtractor(bankToken),
		fetchLimit: fetchLimit,
		logger:     logger.WithComponent(log.ComponentImport),
	}
}

// ImportFromMail fetches recent notifications, extracts transaction
// candidates, drops the ones already staged or already committed to the
// ledger sheet and stages the rest. The ledger check matters after a staging
// rebuild: the sqlite file is disposable, the sheet is not. Every staged
// transaction gets a sync message; publish failures are logged, not fatal,
// because the worker's catch-up pass will retry.
func (s *ImportService) ImportFromMail(ctx context.Context) (ImportResult, error) {
	var result ImportResult

	cats, err := s.categories.Categories(ctx)
	if err != nil {
		return result, fmt.Errorf("load categories: %w", err)
	}

	messages, err := s.mailbox.Fetch(ctx, s.fetchLimit)
	if err != nil {
		return result, fmt.Errorf("fetch mail: %w", err)
	}

	var candidates []core.Transaction
	unrecognized := make(map[string]struct{})
	for _, msg := range messages {
		extracted, candidate := s.extractor.Extract(msg, cats)
		if !candidate {
			result.Skipped++
			continue
		}
		if !extracted.Recognized {
			unrecognized[extracted.Transaction.Fingerprint] = struct{}{}
			s.logger.WarnContext(ctx, "Unrecognized bank notification",
				log.FieldOperation, log.OpExtract,
				log.FieldSubject, msg.Subject)
		}
		candidates = append(candidates, extracted.Transaction)
	}

	existing, err := s.staging.ListFingerprints(ctx)
	if err != nil {
		return result, fmt.Errorf("list staged fingerprints: %w", err)
	}
	committed, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return result, fmt.Errorf("list ledger transactions: %w", err)
	}
	for _, tx := range committed {
		existing[tx.Fingerprint] = struct{}{}
	}
	fresh := core.FilterNew(candidates, existing)
	result.Duplicates = len(candidates) - len(fresh)

	for _, tx := range fresh {
		id, err := s.staging.StageTransaction(ctx, tx)
		if errors.Is(err, storage.ErrDuplicateFingerprint) {
			result.Duplicates++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("stage transaction %s: %w", tx.Fingerprint, err)
		}
		if _, ok := unrecognized[tx.Fingerprint]; ok {
			result.Unrecognized++
		} else {
			result.Imported++
		}
		s.publish(ctx, id)
	}

	s.logger.InfoContext(ctx, "Import run completed",
		log.FieldCount, len(messages),
		"imported", result.Imported,
		"unrecognized", result.Unrecognized,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped)
	return result, nil
}

// AddManual stages a hand-entered transaction. A missing fingerprint gets a
// collision-free manual one; the category must belong to the configured set.
func (s *ImportService) AddManual(ctx context.Context, tx core.Transaction) (int64, error) {
	cats, err := s.categories.Categories(ctx)
	if err != nil {
		return 0, fmt.Errorf("load categories: %w", err)
	}

	if tx.PeriodLabel == "" && !tx.Date.IsZero() {
		tx.PeriodLabel = core.PeriodLabelFor(tx.Date)
	}
	if tx.Fingerprint == "" {
		tx.Fingerprint = core.ManualFingerprint(tx.Date)
	}
	if err := tx.Validate(cats); err != nil {
		return 0, fmt.Errorf("validate manual transaction: %w", err)
	}

	id, err := s.staging.StageTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("stage manual transaction: %w", err)
	}
	s.publish(ctx, id)

	s.logger.InfoContext(ctx, "Manual transaction staged",
		log.FieldFingerprint, tx.Fingerprint,
		log.FieldCategory, tx.Category,
		log.FieldAmount, tx.Amount.String())
	return id, nil
}

func (s *ImportService) publish(ctx context.Context, id int64) {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "Sync publisher not available, relying on worker catch-up", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, 1); err != nil {
		// Not fatal: the transaction is staged and the worker's catch-up
		// pass will sync it.
		s.logger.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, log.FieldError, err)
	}
}
