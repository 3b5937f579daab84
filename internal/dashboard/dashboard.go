// Package dashboard holds the derived views shown on the main page and
// drives the staged start-up that fills them.
package dashboard

import (
	"context"
	"sync"
	"time"

	"moneytracker/internal/adapters"
	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/scheduler"
)

// Boot phase delays, measured from Boot.
const (
	PhaseInstant  = 0
	PhaseQuick    = 50 * time.Millisecond
	PhaseHeavy    = 200 * time.Millisecond
	PhaseComplete = 500 * time.Millisecond

	DefaultChartDelay = 100 * time.Millisecond
)

// Snapshot is an immutable copy of every derived view.
type Snapshot struct {
	Theme               string
	Summary             core.Summary
	QuickStats          core.QuickStats
	TransactionCount    int
	Chart               core.ChartData
	Goals               []core.SavingsGoal
	OpenGoals           []core.SavingsGoal
	MonthOptions        []core.MonthOption
	InitialLoadComplete bool
	UpdatedAt           time.Time
	ChartUpdatedAt      time.Time
}

type Dashboard struct {
	storage    *adapters.StorageAdapter
	logger     *applog.Logger
	now        func() time.Time
	chartDelay time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

func New(storage *adapters.StorageAdapter, logger *applog.Logger, chartDelay time.Duration) *Dashboard {
	if logger == nil {
		logger = applog.Discard()
	}
	if chartDelay <= 0 {
		chartDelay = DefaultChartDelay
	}
	return &Dashboard{
		storage:    storage,
		logger:     logger.WithComponent(applog.ComponentDashboard),
		now:        time.Now,
		chartDelay: chartDelay,
		snap:       Snapshot{Theme: adapters.DefaultTheme},
	}
}

// WithClock overrides the clock used for monthly counts.
func (d *Dashboard) WithClock(now func() time.Time) *Dashboard {
	d.now = now
	return d
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Ready reports whether the start-up sequence has completed.
func (d *Dashboard) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap.InitialLoadComplete
}

// Refresh recomputes the summary, quick stats and transaction count and,
// once the initial load is complete, schedules a chart redraw.
func (d *Dashboard) Refresh(ctx context.Context) {
	d.refreshTransactions(ctx)
	d.refreshGoals(ctx)

	if d.Ready() {
		scheduler.After(ctx, d.chartDelay, func() { d.RefreshChart(ctx) })
	}
}

// RefreshChart recomputes the expense-by-category breakdown.
func (d *Dashboard) RefreshChart(ctx context.Context) {
	chart := core.ExpenseByCategory(d.storage.Transactions(ctx))
	d.mu.Lock()
	d.snap.Chart = chart
	d.snap.ChartUpdatedAt = d.now()
	d.mu.Unlock()
}

// Boot runs the staged start-up. It returns once every phase has been
// started; use the returned channel to wait for completion.
func (d *Dashboard) Boot(ctx context.Context) <-chan struct{} {
	d.logger.InfoContext(ctx, "Starting dashboard boot", applog.FieldOperation, applog.OpStartup)
	return scheduler.RunPhases(ctx, d.logger,
		scheduler.Phase{Name: "instant", Delay: PhaseInstant, Run: d.loadTheme},
		scheduler.Phase{Name: "quick", Delay: PhaseQuick, Run: func(ctx context.Context) {
			d.refreshTransactions(ctx)
			d.mu.Lock()
			d.snap.MonthOptions = core.MonthOptions(d.now())
			d.mu.Unlock()
		}},
		scheduler.Phase{Name: "heavy", Delay: PhaseHeavy, Run: func(ctx context.Context) {
			d.refreshGoals(ctx)
			d.RefreshChart(ctx)
		}},
		scheduler.Phase{Name: "complete", Delay: PhaseComplete, Run: func(ctx context.Context) {
			d.mu.Lock()
			d.snap.InitialLoadComplete = true
			d.mu.Unlock()
			d.logger.InfoContext(ctx, "Initial load complete")
		}},
	)
}

// LoadTheme re-reads the stored theme into the snapshot.
func (d *Dashboard) LoadTheme(ctx context.Context) { d.loadTheme(ctx) }

func (d *Dashboard) loadTheme(ctx context.Context) {
	theme := d.storage.Theme(ctx)
	d.mu.Lock()
	d.snap.Theme = theme
	d.mu.Unlock()
}

func (d *Dashboard) refreshTransactions(ctx context.Context) {
	txs := d.storage.Transactions(ctx)
	now := d.now()
	summary := core.Totals(txs)
	stats := core.ComputeQuickStats(txs, now)

	d.mu.Lock()
	d.snap.Summary = summary
	d.snap.QuickStats = stats
	d.snap.TransactionCount = len(txs)
	d.snap.UpdatedAt = now
	d.mu.Unlock()
}

func (d *Dashboard) refreshGoals(ctx context.Context) {
	goals := d.storage.Savings(ctx)
	var open []core.SavingsGoal
	for _, g := range goals {
		if g.Open() {
			open = append(open, g)
		}
	}
	d.mu.Lock()
	d.snap.Goals = goals
	d.snap.OpenGoals = open
	d.mu.Unlock()
}
