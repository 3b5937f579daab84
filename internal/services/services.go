package services

import (
	"context"
	"errors"
	"time"

	"moneytracker/internal/adapters"
	applog "moneytracker/internal/log"
)

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrPersist is returned when the storage adapter refused a write.
	ErrPersist = errors.New("failed to save changes")
)

// EventPublisher announces persisted mutations. *amqp.Client implements it.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, kind, action string, id int64) error
}

// UpdateNotifier is told after every successful mutation so derived views
// can be recomputed. *scheduler.Debouncer implements it.
type UpdateNotifier interface {
	Schedule()
}

// Deps groups what every service needs. Publisher and Updates are optional.
type Deps struct {
	Storage   *adapters.StorageAdapter
	Publisher EventPublisher
	Updates   UpdateNotifier
	Logger    *applog.Logger
	Clock     func() time.Time
}

func (d Deps) withDefaults(component string) Deps {
	if d.Logger == nil {
		d.Logger = applog.Discard()
	}
	d.Logger = d.Logger.WithComponent(component)
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

// publish never fails the caller: the mutation is already persisted.
func (d Deps) publish(ctx context.Context, kind, action string, id int64) {
	if d.Publisher == nil {
		d.Logger.WarnContext(ctx, "AMQP client not available, skipping record event",
			"kind", kind, "action", action, "id", id)
		return
	}
	if err := d.Publisher.PublishRecordEvent(ctx, kind, action, id); err != nil {
		d.Logger.ErrorContext(ctx, "Failed to publish record event",
			"kind", kind, "action", action, "id", id, applog.FieldError, err)
	}
}

func (d Deps) scheduleUpdate() {
	if d.Updates != nil {
		d.Updates.Schedule()
	}
}

// nextID returns the creation time in milliseconds, bumped past lastID so
// two records created within the same millisecond still get distinct ids.
func nextID(now time.Time, lastID int64) int64 {
	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	return id
}
