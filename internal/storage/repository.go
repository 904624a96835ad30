// Package storage is the local SQLite staging area. Accepted transactions
// land here first with sync_status 'pending'; the worker moves them to the
// spreadsheet and marks them 'synced'.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// ErrDuplicateFingerprint reports an insert that collided with an already
// staged transaction.
var ErrDuplicateFingerprint = errors.New("fingerprint already staged")

// ErrNotFound reports a lookup for an ID that does not exist.
var ErrNotFound = errors.New("transaction not found")

// StagedTransaction is one row of the staging table.
type StagedTransaction struct {
	ID          int64
	Transaction core.Transaction
	SyncStatus  string
	Version     int64
	CreatedAt   time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// StageTransaction inserts a transaction with sync_status 'pending' and
// returns its ID. A fingerprint collision returns ErrDuplicateFingerprint.
func (r *SQLiteRepository) StageTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM transactions WHERE fingerprint = ?`, tx.Fingerprint).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check fingerprint: %w", err)
	}
	if exists > 0 {
		return 0, ErrDuplicateFingerprint
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, description, amount, direction, category, period_label, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.Format(dateLayout), tx.Description, tx.Amount.String(),
		string(tx.Direction), tx.Category, tx.PeriodLabel, tx.Fingerprint)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction staged",
		"id", id,
		"fingerprint", tx.Fingerprint,
		"category", tx.Category,
		"amount", tx.Amount.String())
	return id, nil
}

// GetTransaction retrieves a single staged transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (StagedTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, description, amount, direction, category, period_label, fingerprint, sync_status, version, created_at
		 FROM transactions WHERE id = ?`, id)
	st, err := scanStaged(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StagedTransaction{}, ErrNotFound
	}
	if err != nil {
		return StagedTransaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return st, nil
}

// ListTransactions returns every staged transaction, oldest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]StagedTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount, direction, category, period_label, fingerprint, sync_status, version, created_at
		 FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectStaged(rows)
}

// ListFingerprints returns the fingerprint of every staged transaction.
func (r *SQLiteRepository) ListFingerprints(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT fingerprint FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[fp] = struct{}{}
	}
	return out, rows.Err()
}

// PendingSync returns up to limit transactions waiting for spreadsheet sync,
// oldest first. Rows in 'error' state are included so they get retried.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]StagedTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount, direction, category, period_label, fingerprint, sync_status, version, created_at
		 FROM transactions WHERE sync_status IN ('pending', 'error') ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()
	return collectStaged(rows)
}

// MarkSynced records that a transaction reached the spreadsheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a transaction whose sync attempt failed and bumps its
// version so retries are observable.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error', version = version + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaged(row rowScanner) (StagedTransaction, error) {
	var (
		st        StagedTransaction
		date      string
		amount    string
		direction string
		createdAt time.Time
	)
	err := row.Scan(&st.ID, &date, &st.Transaction.Description, &amount, &direction,
		&st.Transaction.Category, &st.Transaction.PeriodLabel, &st.Transaction.Fingerprint,
		&st.SyncStatus, &st.Version, &createdAt)
	if err != nil {
		return StagedTransaction{}, err
	}
	st.Transaction.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return StagedTransaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	st.Transaction.Amount = core.NormalizeAmount(amount)
	st.Transaction.Direction = core.Direction(direction)
	st.CreatedAt = createdAt
	return st, nil
}

func collectStaged(rows *sql.Rows) ([]StagedTransaction, error) {
	var out []StagedTransaction
	for rows.Next() {
		st, err := scanStaged(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
