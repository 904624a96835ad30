// Package worker moves staged transactions from SQLite to the ledger
// worksheet, driven by queue messages with a periodic catch-up pass for
// anything the queue missed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/sheets"
	"bilancio/internal/storage"
)

// SyncStorage is the slice of the repository the worker needs.
type SyncStorage interface {
	GetTransaction(ctx context.Context, id int64) (storage.StagedTransaction, error)
	PendingSync(ctx context.Context, limit int) ([]storage.StagedTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker appends staged transactions to the ledger worksheet and tracks
// their sync state.
type SyncWorker struct {
	storage   SyncStorage
	ledger    sheets.LedgerAppender
	batchSize int
}

func NewSyncWorker(storage SyncStorage, ledger sheets.LedgerAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one queue message. A missing row is treated
// as handled so the message is not redelivered forever.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	staged, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Sync message for unknown transaction, dropping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}
	if staged.SyncStatus == "synced" {
		slog.InfoContext(ctx, "Transaction already synced, dropping message", "id", msg.ID)
		return nil
	}

	if err := w.syncToLedger(ctx, staged.ID, staged.Transaction); err != nil {
		return fmt.Errorf("sync transaction to ledger: %w", err)
	}
	return nil
}

// ProcessPending syncs up to one batch of transactions still waiting. This
// is the backup path for lost queue messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, staged := range pending {
		if err := w.syncToLedger(ctx, staged.ID, staged.Transaction); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction",
				"id", staged.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending backlog once at worker startup,
// recovering from downtime or missed messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, staged := range pending {
		if err := w.syncToLedger(ctx, staged.ID, staged.Transaction); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", staged.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) syncToLedger(ctx context.Context, id int64, tx core.Transaction) error {
	if err := w.ledger.AppendTransactions(ctx, []core.Transaction{tx}); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The append worked; a failed status update only delays the mark.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Transaction synced to ledger",
		"id", id,
		"fingerprint", tx.Fingerprint,
		"category", tx.Category,
		"amount", tx.Amount.String())
	return nil
}
