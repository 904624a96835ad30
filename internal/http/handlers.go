package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/storage"

	"github.com/shopspring/decimal"
)

// handleImport triggers one mailbox import run.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := s.importer.ImportFromMail(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Import run failed", "error", err)
		writeError(w, http.StatusBadGateway, "import failed")
		return
	}

	// New transactions invalidate the cached ledger view.
	if result.Imported+result.Unrecognized > 0 {
		s.reporter.InvalidateCaches()
	}
	writeJSON(w, http.StatusOK, result)
}

type transactionPayload struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Category    string `json:"category"`
}

type transactionView struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Category    string `json:"category"`
	PeriodLabel string `json:"period_label"`
	Fingerprint string `json:"fingerprint"`
	SyncStatus  string `json:"sync_status"`
}

// handleTransactions lists the staged transactions or stages a manual one.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	staged, err := s.transactions.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list transactions failed")
		return
	}

	views := make([]transactionView, 0, len(staged))
	for _, st := range staged {
		views = append(views, transactionView{
			ID:          st.ID,
			Date:        st.Transaction.Date.Format("2006-01-02"),
			Description: st.Transaction.Description,
			Amount:      st.Transaction.Amount.String(),
			Direction:   string(st.Transaction.Direction),
			Category:    st.Transaction.Category,
			PeriodLabel: st.Transaction.PeriodLabel,
			Fingerprint: st.Transaction.Fingerprint,
			SyncStatus:  st.SyncStatus,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": views})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSONBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(payload.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
		return
	}

	amount := core.NormalizeAmount(payload.Amount)
	if !amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	direction, ok := core.NormalizeDirection(payload.Direction)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid direction")
		return
	}

	tx := core.Transaction{
		Date:        date,
		Description: sanitizeInput(payload.Description),
		Amount:      amount,
		Direction:   direction,
		Category:    sanitizeInput(payload.Category),
	}

	id, err := s.importer.AddManual(r.Context(), tx)
	switch {
	case errors.Is(err, core.ErrUnknownCategory):
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	case errors.Is(err, core.ErrEmptyDescription):
		writeError(w, http.StatusUnprocessableEntity, "empty description")
		return
	case errors.Is(err, storage.ErrDuplicateFingerprint):
		writeError(w, http.StatusConflict, "duplicate transaction")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Manual transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "stage transaction failed")
		return
	}

	s.reporter.InvalidateCaches()
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// handleReconciliation returns the budget-vs-actual view for a year and
// period (month name/number, q1-q4, s1-s2 or empty for the whole year).
func (s *Server) handleReconciliation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	period, err := core.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.reporter.Reconcile(r.Context(), year, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Reconciliation failed", "error", err,
			"year", year, "period", period.String())
		writeError(w, http.StatusBadGateway, "reconciliation failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleKPIs returns the annual summary ratios. target is the year-end
// balance goal; it defaults to zero, which disables target attainment.
func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	target := decimal.Zero
	if v := strings.TrimSpace(r.URL.Query().Get("target")); v != "" {
		target, err = decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid target")
			return
		}
	}

	kpis, err := s.reporter.KPIs(r.Context(), year, target)
	if err != nil {
		slog.ErrorContext(r.Context(), "KPI computation failed", "error", err, "year", year)
		writeError(w, http.StatusBadGateway, "kpi computation failed")
		return
	}
	writeJSON(w, http.StatusOK, kpis)
}

// handleCategories returns the configured category lists.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cats, err := s.categories.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category load failed", "error", err)
		writeError(w, http.StatusBadGateway, "category load failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"income":  cats.Income,
		"expense": cats.Expense,
	})
}
