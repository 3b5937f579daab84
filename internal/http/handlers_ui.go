package http

import (
	"encoding/json"
	"net/http"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/render"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := s.now()
	snap := s.dashboard.Snapshot()
	months := snap.MonthOptions
	if len(months) == 0 {
		months = core.MonthOptions(now)
	}

	txs := s.transactions.List(ctx)
	txPage := render.Paginate(render.TransactionItems(txs), s.pages.TransactionsPageSize, 0)
	goalPage := render.Paginate(render.GoalCards(s.goals.List(ctx)), s.pages.GoalsPageSize, 0)

	page := render.IndexPage{
		Theme:          s.theme.Get(ctx),
		CurrentDate:    render.LongDate(now),
		Today:          core.DateOf(now).String(),
		RefreshDelayMs: s.refreshDelay.Milliseconds(),
		ChartDelayMs:   s.chartDelay.Milliseconds(),

		Summary:       render.NewSummaryView(snap.Summary),
		QuickStats:    render.NewQuickStatsView(snap.QuickStats),
		MonthOverview: render.NewMonthOverviewView(s.getOverview(ctx, now.Year(), int(now.Month()))),
		Transactions: render.TransactionList{
			Page:     txPage,
			Sentinel: sentinel("/ui/transactions", nil, txPage.NextOffset, s.pages.TransactionsLazyDelay.Milliseconds()),
			Count:    len(txs),
			HasAny:   len(txs) > 0,
		},
		Goals: render.GoalList{
			Page:     goalPage,
			Sentinel: sentinel("/ui/goals", nil, goalPage.NextOffset, s.pages.GoalsLazyDelay.Milliseconds()),
		},
		Filters: render.Filters{
			Categories: render.CategoryOptions(""),
			Months:     render.MonthFilterOptions(months, ""),
		},

		IncomeCategories:  render.TypeCategoryOptions(core.Income, ""),
		ExpenseCategories: render.TypeCategoryOptions(core.Expense, ""),
		GoalCategories:    render.GoalCategoryOptions(""),
		QuickSave:         render.QuickSaveOptions(s.goals.Open(ctx)),
	}
	s.writeTemplate(w, r, "index.html", page)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeTemplate(w, r, "summary", render.NewSummaryView(s.dashboard.Snapshot().Summary))
}

func (s *Server) handleQuickStats(w http.ResponseWriter, r *http.Request) {
	s.writeTemplate(w, r, "quick-stats", render.NewQuickStatsView(s.dashboard.Snapshot().QuickStats))
}

// handleFilters renders the category and month selects, keeping the
// current selection.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	months := s.dashboard.Snapshot().MonthOptions
	if len(months) == 0 {
		months = core.MonthOptions(s.now())
	}
	s.writeTemplate(w, r, "filter-selects", render.Filters{
		Categories: render.CategoryOptions(query.Get("category")),
		Months:     render.MonthFilterOptions(months, query.Get("month")),
	})
}

// handleMonthOverview renders the monthly overview partial.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query(), s.now())
	ov := s.getOverview(r.Context(), params.Year, params.Month)
	s.writeTemplate(w, r, "month-overview", render.NewMonthOverviewView(ov))
}

// handleChart serves the expense breakdown in the shape the chart script expects.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart := render.NewChart(s.dashboard.Snapshot().Chart, s.theme.Get(r.Context()))
	writeJSON(w, r, http.StatusOK, chart)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	backup, ok := s.storage.ReadBackup(r.Context())
	if !ok {
		writeJSON(w, r, http.StatusNotFound, map[string]string{"error": "no backup yet"})
		return
	}
	writeJSON(w, r, http.StatusOK, backup)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode JSON response", applog.FieldError, err)
	}
}
