package amqp

import (
	"encoding/json"
	"time"
)

// Record kinds and actions carried by RecordEvent.
const (
	KindTransaction = "transaction"
	KindGoal        = "goal"
	KindTheme       = "theme"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordEvent announces a persisted mutation. Consumers re-read the record
// from storage when they need more than the id.
type RecordEvent struct {
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(kind, action string, id int64) *RecordEvent {
	return &RecordEvent{
		Kind:      kind,
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey is "<kind>.<action>".
func (m *RecordEvent) RoutingKey() string {
	return m.Kind + "." + m.Action
}

func (m *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var msg RecordEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
