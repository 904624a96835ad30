package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"bilancio/internal/core"
	ports "bilancio/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads the ledger, budget and category worksheets and appends
// accepted transactions to the ledger worksheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	budgetSheet   string
	categorySheet string
	// Ranges for the two category columns; income in one column, expenses
	// in another, matching the original dashboard layout.
	incomeCatRange  string
	expenseCatRange string
}

// Ensure interface conformance
var (
	_ ports.LedgerReader   = (*Client)(nil)
	_ ports.LedgerAppender = (*Client)(nil)
	_ ports.BudgetReader   = (*Client)(nil)
	_ ports.CategoryReader = (*Client)(nil)
)

// Options configures the worksheet names the client touches.
type Options struct {
	SpreadsheetID string
	LedgerSheet   string
	BudgetSheet   string
	CategorySheet string
}

// New creates a Sheets client authenticated with service-account
// credentials. Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:             svc,
		spreadsheetID:   opts.SpreadsheetID,
		ledgerSheet:     defaultIfEmpty(opts.LedgerSheet, "DB_TRANSAZIONI"),
		budgetSheet:     defaultIfEmpty(opts.BudgetSheet, "DB_BUDGET"),
		categorySheet:   defaultIfEmpty(opts.CategorySheet, "2026"),
		incomeCatRange:  "A4:A30",
		expenseCatRange: "C3:C30",
	}, nil
}

func defaultIfEmpty(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListTransactions scans the whole ledger worksheet. Malformed rows are
// skipped, not fatal: the sheet is hand-edited.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:G", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	txs, skipped := parseLedgerValues(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed ledger rows", "sheet", c.ledgerSheet, "skipped", skipped)
	}
	return txs, nil
}

// AppendTransactions appends the accepted transactions after the current
// last ledger row.
func (c *Client) AppendTransactions(ctx context.Context, txs []core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(txs) == 0 {
		return nil
	}
	values := make([][]any, 0, len(txs))
	for _, tx := range txs {
		values = append(values, ledgerRow(tx))
	}
	rng := fmt.Sprintf("%s!A:G", c.ledgerSheet)
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.ledgerSheet, err)
	}
	slog.InfoContext(ctx, "Appended transactions to ledger sheet",
		"sheet", c.ledgerSheet, "count", len(txs))
	return nil
}

// ListBudgetRows reads the wide budget worksheet (Categoria, Tipo, one
// column per month) and flattens it into normalized rows.
func (c *Client) ListBudgetRows(ctx context.Context) ([]core.BudgetRow, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:O200", c.budgetSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	rows, skipped := parseBudgetValues(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped budget rows with unrecognized type labels",
			"sheet", c.budgetSheet, "skipped", skipped)
	}
	return rows, nil
}

// Categories reads the two category columns from the dashboard worksheet.
// The sentinel is guaranteed present by NewCategorySet.
func (c *Client) Categories(ctx context.Context) (core.CategorySet, error) {
	if c.svc == nil {
		return core.CategorySet{}, errors.New("sheets service not initialized")
	}
	income, err := c.readCol(ctx, c.categorySheet, c.incomeCatRange)
	if err != nil {
		return core.CategorySet{}, fmt.Errorf("read income categories: %w", err)
	}
	expense, err := c.readCol(ctx, c.categorySheet, c.expenseCatRange)
	if err != nil {
		return core.CategorySet{}, fmt.Errorf("read expense categories: %w", err)
	}
	return core.NewCategorySet(income, expense), nil
}

func (c *Client) readCol(ctx context.Context, sheetName, col string) ([]string, error) {
	rng := fmt.Sprintf("%s!%s", sheetName, col)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	var out []string
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if v == "" || strings.HasPrefix(v, "#") {
			continue
		}
		out = append(out, v)
	}
	// Dedup while preserving order
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(out))
	for _, v := range out {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	return uniq, nil
}
