package sheets

import (
	"context"

	"bilancio/internal/core"
)

// Ports for the spreadsheet collaborator. The engine only ever sees
// in-memory rows; adapters own ranges, worksheets and auth.
type (
	// LedgerReader returns every committed transaction row.
	LedgerReader interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// LedgerAppender appends newly accepted transactions. Row order beyond
	// "newest appended" is the caller's display concern.
	LedgerAppender interface {
		AppendTransactions(ctx context.Context, txs []core.Transaction) error
	}

	// BudgetReader returns the normalized budget rows.
	BudgetReader interface {
		ListBudgetRows(ctx context.Context) ([]core.BudgetRow, error)
	}

	// CategoryReader returns the two ordered category lists. Implementations
	// guarantee the sentinel is present in both.
	CategoryReader interface {
		Categories(ctx context.Context) (core.CategorySet, error)
	}
)
