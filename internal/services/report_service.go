package services

import (
	"context"
	"fmt"
	"time"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/sheets"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	budgetCacheKey = "budget_rows"
	ledgerCacheKey = "ledger_transactions"
)

// ReconciliationReport is the budget-vs-actual view for one year and period.
type ReconciliationReport struct {
	Year   int                      `json:"year"`
	Period string                   `json:"period"`
	Rows   []core.ReconciliationRow `json:"rows"`
	// NoBudget flags a period with actuals but not a single budget row, so
	// clients can distinguish "nothing planned" from "all on plan".
	NoBudget bool `json:"no_budget"`
}

// ReportService computes reconciliations and KPIs from the spreadsheet
// tables, caching both reads briefly.
type ReportService struct {
	ledger sheets.LedgerReader
	budget sheets.BudgetReader

	ledgerCache *cache.TTL[[]core.Transaction]
	budgetCache *cache.TTL[[]core.BudgetRow]

	logger *log.Logger
	now    func() time.Time
}

func NewReportService(ledger sheets.LedgerReader, budget sheets.BudgetReader, ttl time.Duration, logger *log.Logger) *ReportService {
	return &ReportService{
		ledger:      ledger,
		budget:      budget,
		ledgerCache: cache.New[[]core.Transaction](ttl),
		budgetCache: cache.New[[]core.BudgetRow](ttl),
		logger:      logger.WithComponent(log.ComponentReport),
		now:         time.Now,
	}
}

// Reconcile merges budget and actuals for the given year and period. The
// two tables are fetched concurrently.
func (s *ReportService) Reconcile(ctx context.Context, year int, period core.Period) (ReconciliationReport, error) {
	var (
		budgetRows []core.BudgetRow
		txs        []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgetRows, err = s.budgetRows(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.transactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ReconciliationReport{}, err
	}

	months := period.MonthSet()
	budget := core.AggregateBudget(budgetRows, months)
	actual := core.AggregateActual(txs, year, months)
	rows := core.Reconcile(budget, actual, period.ContainsJanuary())

	s.logger.InfoContext(ctx, "Reconciliation computed",
		log.FieldOperation, log.OpReconcile,
		log.FieldYear, year,
		log.FieldPeriod, period.String(),
		log.FieldCount, len(rows))

	return ReconciliationReport{
		Year:     year,
		Period:   period.String(),
		Rows:     rows,
		NoBudget: len(budget) == 0,
	}, nil
}

// KPIs derives the summary ratios from the annual reconciliation. The
// opening balance comes from its reconciliation row so the January
// carry-forward applies; operating totals exclude it.
func (s *ReportService) KPIs(ctx context.Context, year int, targetBalance decimal.Decimal) (core.KPIs, error) {
	report, err := s.Reconcile(ctx, year, core.Period{Kind: core.PeriodYear})
	if err != nil {
		return core.KPIs{}, fmt.Errorf("annual reconciliation: %w", err)
	}

	var opening, income, expense decimal.Decimal
	for _, row := range report.Rows {
		if row.Category == core.OpeningBalanceCategory {
			opening = opening.Add(row.Actual)
			continue
		}
		switch row.Direction {
		case core.Income:
			income = income.Add(row.Actual)
		case core.Expense:
			expense = expense.Add(row.Actual)
		}
	}

	return core.ComputeKPIs(opening, income, expense, targetBalance, s.elapsedMonthFraction(year)), nil
}

// elapsedMonthFraction is elapsed months of the year over 12: a finished
// year reports 1, a future year 0.
func (s *ReportService) elapsedMonthFraction(year int) decimal.Decimal {
	now := s.now()
	switch {
	case year < now.Year():
		return decimal.NewFromInt(1)
	case year > now.Year():
		return decimal.Zero
	default:
		return decimal.NewFromInt(int64(now.Month())).Div(decimal.NewFromInt(12))
	}
}

// InvalidateCaches drops the cached tables, forcing fresh reads. Called
// after imports so new transactions show up immediately.
func (s *ReportService) InvalidateCaches() {
	s.ledgerCache.Delete(ledgerCacheKey)
	s.budgetCache.Delete(budgetCacheKey)
}

func (s *ReportService) budgetRows(ctx context.Context) ([]core.BudgetRow, error) {
	if rows, ok := s.budgetCache.Get(budgetCacheKey); ok {
		return rows, nil
	}
	rows, err := s.budget.ListBudgetRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read budget rows: %w", err)
	}
	s.budgetCache.Set(budgetCacheKey, rows)
	return rows, nil
}

func (s *ReportService) transactions(ctx context.Context) ([]core.Transaction, error) {
	if txs, ok := s.ledgerCache.Get(ledgerCacheKey); ok {
		return txs, nil
	}
	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	s.ledgerCache.Set(ledgerCacheKey, txs)
	return txs, nil
}
