package http

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"moneytracker/internal/adapters"
	"moneytracker/internal/cache"
	"moneytracker/internal/core"
	"moneytracker/internal/dashboard"
	applog "moneytracker/internal/log"
	"moneytracker/internal/middleware/ratelimit"
	"moneytracker/internal/middleware/security"
	"moneytracker/internal/middleware/trace"
	"moneytracker/internal/render"
	"moneytracker/internal/services"
	appweb "moneytracker/web"
)

// PageConfig sets how many records render up front and when the lazy tail
// is fetched.
type PageConfig struct {
	TransactionsPageSize  int
	TransactionsLazyDelay time.Duration
	GoalsPageSize         int
	GoalsLazyDelay        time.Duration
}

func DefaultPageConfig() PageConfig {
	return PageConfig{
		TransactionsPageSize:  30,
		TransactionsLazyDelay: time.Second,
		GoalsPageSize:         4,
		GoalsLazyDelay:        500 * time.Millisecond,
	}
}

// Options wires the server to the services. Storage, Dashboard and the three
// services are required; everything else has a default.
type Options struct {
	Addr         string
	Storage      *adapters.StorageAdapter
	Dashboard    *dashboard.Dashboard
	Transactions *services.TransactionService
	Goals        *services.GoalService
	Theme        *services.ThemeService
	Logger       *applog.Logger

	Pages         PageConfig
	RefreshDelay  time.Duration
	ChartDelay    time.Duration
	RateLimiter   *ratelimit.Limiter
	OverviewCache *cache.LRUCache[core.MonthOverview]
	Clock         func() time.Time
}

type Server struct {
	http.Server
	templates    *render.Templates
	storage      *adapters.StorageAdapter
	dashboard    *dashboard.Dashboard
	transactions *services.TransactionService
	goals        *services.GoalService
	theme        *services.ThemeService
	logger       *applog.Logger

	pages        PageConfig
	refreshDelay time.Duration
	chartDelay   time.Duration
	now          func() time.Time
	startedAt    time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	// month overviews are cleared on every transaction mutation
	overviewCache *cache.LRUCache[core.MonthOverview]

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Pages == (PageConfig{}) {
		opts.Pages = DefaultPageConfig()
	}
	if opts.RateLimiter == nil {
		opts.RateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}
	if opts.OverviewCache == nil {
		opts.OverviewCache = cache.NewLRUCache[core.MonthOverview](100, 5*time.Minute)
	}
	if opts.ChartDelay <= 0 {
		opts.ChartDelay = dashboard.DefaultChartDelay
	}

	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		storage:          opts.Storage,
		dashboard:        opts.Dashboard,
		transactions:     opts.Transactions,
		goals:            opts.Goals,
		theme:            opts.Theme,
		logger:           logger,
		pages:            opts.Pages,
		refreshDelay:     opts.RefreshDelay,
		chartDelay:       opts.ChartDelay,
		now:              opts.Clock,
		startedAt:        opts.Clock(),
		rateLimiter:      opts.RateLimiter,
		securityDetector: security.NewDetector(),
		overviewCache:    opts.OverviewCache,
	}
	s.traceMiddleware = trace.NewMiddleware(opts.Logger, s.securityDetector.ExtractClientIP)

	t, err := render.ParseTemplates(appweb.TemplatesFS)
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldComponent, applog.ComponentTemplate, applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssets(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /ui/transactions", s.handleTransactionList)

	mux.HandleFunc("GET /ui/summary", s.handleSummary)
	mux.HandleFunc("GET /ui/quick-stats", s.handleQuickStats)
	mux.HandleFunc("GET /ui/filters", s.handleFilters)
	mux.HandleFunc("GET /ui/month-overview", s.handleMonthOverview)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/backup", s.handleBackup)

	mux.HandleFunc("GET /ui/goals", s.handleGoalList)
	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("POST /goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /goals/{id}/contributions", s.handleContribute)
	mux.HandleFunc("POST /quick-save", s.handleQuickSave)
	mux.HandleFunc("GET /ui/quick-save", s.handleQuickSaveOptions)

	mux.HandleFunc("POST /theme/toggle", s.handleToggleTheme)
	mux.HandleFunc("GET /export.csv", s.handleExport)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.overviewCache.Purge()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Terlalu banyak permintaan, coba lagi nanti").Write(w)
}

// writeTemplate executes a template into w, answering 500 when templates are
// missing or fail.
func (s *Server) writeTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.Execute(w, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err, "template", name)
		InternalServerError(msgRenderFailed).Write(w)
	}
}

// writeFragment renders a fragment and sends it through the builder so the
// triggers and status travel with the body.
func (s *Server) writeFragment(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	if s.templates == nil {
		s.writeTemplate(w, r, name, data)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.Execute(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err, "template", name)
		InternalServerError(msgRenderFailed).Write(w)
		return
	}
	b.BodyHTML(buf.String()).Write(w)
}

func overviewKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func (s *Server) invalidateOverviews() {
	s.overviewCache.Purge()
}

func (s *Server) getOverview(ctx context.Context, year, month int) core.MonthOverview {
	key := overviewKey(year, month)
	if data, found := s.overviewCache.Get(key); found {
		applog.FromContext(ctx).DebugContext(ctx, "Overview cache hit", "year", year, "month", month)
		return data
	}
	data := core.MonthOverviewFor(s.storage.Transactions(ctx), year, month)
	s.overviewCache.Set(key, data)
	applog.FromContext(ctx).DebugContext(ctx, "Overview cached", "year", year, "month", month, applog.FieldCount, data.Count)
	return data
}

func (s *Server) uptime() string {
	return fmt.Sprint(s.now().Sub(s.startedAt).Round(time.Second))
}
