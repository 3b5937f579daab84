package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"moneytracker/internal/export"
	applog "moneytracker/internal/log"
	"moneytracker/internal/render"
	"moneytracker/internal/services"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.uptime(),
	})
}

// handleReady reports 503 until the dashboard has finished its start-up
// sequence and the templates are loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.dashboard.Ready() {
		checks["initial_load"] = "ok"
	} else {
		checks["initial_load"] = "pending"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	checks["cache"] = map[string]interface{}{
		"overview_entries": s.overviewCache.Size(),
		"status":           "ok",
	}
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.GetMetrics().ClientCount,
		"status":         "ok",
	}

	writeJSON(w, r, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	snap := s.dashboard.Snapshot()
	rl := s.rateLimiter.GetMetrics()

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", s.traceMiddleware.TotalRequests())

	fmt.Fprintf(w, "# HELP transactions Stored transactions at the last refresh\n")
	fmt.Fprintf(w, "# TYPE transactions gauge\n")
	fmt.Fprintf(w, "transactions %d\n\n", snap.TransactionCount)

	fmt.Fprintf(w, "# HELP savings_goals Stored savings goals at the last refresh\n")
	fmt.Fprintf(w, "# TYPE savings_goals gauge\n")
	fmt.Fprintf(w, "savings_goals %d\n\n", len(snap.Goals))

	fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries{type=\"overview\"} %d\n\n", s.overviewCache.Size())

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rl.TotalHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", s.securityDetector.SuspiciousCount())

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rl.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", s.now().Sub(s.startedAt).Seconds())
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.theme.Toggle(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to toggle theme", applog.FieldError, err)
		InternalServerError(msgSaveFailed).Write(w)
		return
	}
	NewHTMXResponse().
		TriggerThemeChanged(theme, services.ChartRefreshDelay.Milliseconds()).
		BodyHTML(render.ThemeIcon(theme)).
		Write(w)
}

// handleExport downloads every transaction as CSV. With nothing stored it
// answers 204 so the browser stays on the page.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentExport)
	txs := s.transactions.List(ctx)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			NewHTMXResponse().
				Status(http.StatusNoContent).
				TriggerInfoNotification(msgNothingToExport).
				Write(w)
			return
		}
		logger.ErrorContext(ctx, "CSV export failed", applog.FieldError, err)
		InternalServerError(msgRenderFailed).Write(w)
		return
	}

	logger.InfoContext(ctx, "Transactions exported",
		applog.FieldOperation, applog.OpExport, applog.FieldCount, len(txs))
	NewHTMXResponse().
		Header("Content-Type", "text/csv; charset=utf-8").
		Header("Content-Disposition", `attachment; filename="`+export.Filename(s.now())+`"`).
		Header("Content-Length", strconv.Itoa(buf.Len())).
		TriggerSuccessNotification(msgExported).
		Body(buf.Bytes()).
		Write(w)
}
