package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyString("test").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger should be absent without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerTransactionChanged("created", 1700000000000).
		TriggerFormReset("transaction-form").
		TriggerSuccessNotification(msgTransactionAdded).
		Write(w)

	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	for _, name := range []string{"transaction:created", EventRecordsChanged, EventFormReset, EventShowNotification} {
		if _, ok := triggers[name]; !ok {
			t.Errorf("HX-Trigger missing %q", name)
		}
	}

	var note map[string]interface{}
	if err := json.Unmarshal(triggers[EventShowNotification], &note); err != nil {
		t.Fatalf("notification payload: %v", err)
	}
	if note["type"] != "success" || note["title"] != TitleSuccess || note["message"] != msgTransactionAdded {
		t.Errorf("unexpected notification %v", note)
	}
}

func TestHTMXResponseBuilder_GoalTriggers(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().TriggerGoalChanged("updated", 5).TriggerGoalsReload().Write(w)

	trigger := w.Header().Get("HX-Trigger")
	for _, part := range []string{`"goal:updated":{"id":5}`, `"goals:changed"`, `"goals:reload"`} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %s: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_ThemeChanged(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().TriggerThemeChanged("dark", 500).Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, `"theme":"dark"`) || !strings.Contains(trigger, `"chartDelay":500`) {
		t.Errorf("unexpected trigger %s", trigger)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *HTMXResponseBuilder
		status  int
	}{
		{"bad request", BadRequestError("x"), http.StatusBadRequest},
		{"unprocessable", UnprocessableEntityError("x"), http.StatusUnprocessableEntity},
		{"not found", NotFoundError("x"), http.StatusNotFound},
		{"internal", InternalServerError("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Header().Get("HX-Trigger"), `"type":"error"`) {
				t.Error("error responses must carry an error notification")
			}
			if w.Header().Get("HX-Reswap") != "none" {
				t.Error("error responses must not swap content")
			}
		})
	}
}

func TestErrorResponseEscapesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(http.StatusBadRequest, "<script>alert(1)</script>").Write(w)
	if strings.Contains(w.Body.String(), "<script>") {
		t.Fatalf("message not escaped: %s", w.Body.String())
	}
}
