// Package google implements the spreadsheet ports on top of the Google
// Sheets API. Parsing is split out into pure functions so the row layouts
// stay testable without a live spreadsheet.
package google

import (
	"fmt"
	"strings"
	"time"

	"bilancio/internal/core"
)

// Ledger worksheet columns, in order:
// Data, Descrizione, Importo, Tipo, Categoria, Mese, Firma.
const ledgerDateLayout = "02/01/2006"

var ledgerDateLayouts = []string{ledgerDateLayout, "2006-01-02", "2/1/2006"}

// ledgerRow renders a transaction in the worksheet column order.
func ledgerRow(tx core.Transaction) []any {
	return []any{
		tx.Date.Format(ledgerDateLayout),
		tx.Description,
		tx.Amount.String(),
		string(tx.Direction),
		tx.Category,
		tx.PeriodLabel,
		tx.Fingerprint,
	}
}

// parseLedgerValues converts raw worksheet rows into transactions. The
// header row and rows without a parsable date or a recognizable direction
// are skipped and counted.
func parseLedgerValues(values [][]any) ([]core.Transaction, int) {
	txs := make([]core.Transaction, 0, len(values))
	skipped := 0
	for i, row := range values {
		if i == 0 && looksLikeLedgerHeader(row) {
			continue
		}
		tx, ok := parseLedgerRow(row)
		if !ok {
			if !rowIsEmpty(row) {
				skipped++
			}
			continue
		}
		txs = append(txs, tx)
	}
	return txs, skipped
}

func parseLedgerRow(row []any) (core.Transaction, bool) {
	if len(row) < 5 {
		return core.Transaction{}, false
	}
	date, ok := parseLedgerDate(cell(row, 0))
	if !ok {
		return core.Transaction{}, false
	}
	description := cell(row, 1)
	if description == "" {
		return core.Transaction{}, false
	}
	direction, ok := core.NormalizeDirection(cell(row, 3))
	if !ok {
		return core.Transaction{}, false
	}
	tx := core.Transaction{
		Date:        date,
		Description: description,
		Amount:      core.NormalizeAmount(cell(row, 2)),
		Direction:   direction,
		Category:    cell(row, 4),
		PeriodLabel: cell(row, 5),
		Fingerprint: cell(row, 6),
	}
	if tx.Category == "" {
		tx.Category = core.SentinelCategory
	}
	if tx.PeriodLabel == "" {
		tx.PeriodLabel = core.PeriodLabelFor(date)
	}
	return tx, true
}

func parseLedgerDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range ledgerDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func looksLikeLedgerHeader(row []any) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(cell(row, 0))
	return first == "data" || first == "date"
}

// Budget worksheet layout: first column Categoria, second Tipo, then one
// column per month. The header row names the month columns; "ALL" or
// "Anno" headers mark annual rows.
func parseBudgetValues(values [][]any) ([]core.BudgetRow, int) {
	if len(values) < 2 {
		return nil, 0
	}
	header := values[0]
	monthByCol := make(map[int]string, len(header))
	for col := 2; col < len(header); col++ {
		label := cell(header, col)
		if label == "" {
			continue
		}
		if strings.EqualFold(label, "anno") || strings.EqualFold(label, "year") {
			monthByCol[col] = core.MonthAll
			continue
		}
		monthByCol[col] = core.NormalizeMonth(label)
	}

	rows := make([]core.BudgetRow, 0, len(values))
	skipped := 0
	for _, row := range values[1:] {
		if rowIsEmpty(row) {
			continue
		}
		category := cell(row, 0)
		if category == "" {
			continue
		}
		direction, ok := core.NormalizeDirection(cell(row, 1))
		if !ok {
			skipped++
			continue
		}
		for col := 2; col < len(header); col++ {
			month, ok := monthByCol[col]
			if !ok {
				continue
			}
			raw := cell(row, col)
			if raw == "" {
				continue
			}
			planned := core.NormalizeAmount(raw)
			if planned.IsZero() {
				continue
			}
			rows = append(rows, core.BudgetRow{
				Month:     month,
				Category:  category,
				Direction: direction,
				Planned:   planned,
			})
		}
	}
	return rows, skipped
}

func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func rowIsEmpty(row []any) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}
