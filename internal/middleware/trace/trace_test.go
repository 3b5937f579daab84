package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "moneytracker/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Output: &buf, Level: slog.LevelInfo})
	m := NewMiddleware(logger, func(*http.Request) string { return "192.0.2.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		if applog.FromContext(r.Context()).Component() != applog.ComponentHTTP {
			t.Error("request logger should be stored in the context")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/summary", nil))

	if !strings.HasPrefix(seen, "req_") || rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("request id %q not propagated (header %q)", seen, rec.Header().Get(HeaderRequestID))
	}
	out := buf.String()
	if !strings.Contains(out, "status_code=418") || !strings.Contains(out, "request_id="+seen) {
		t.Fatalf("unexpected log output %q", out)
	}
	if m.TotalRequests() != 1 {
		t.Fatalf("total = %d", m.TotalRequests())
	}
}
