// Package worker reacts to record events published by the web process.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"moneytracker/internal/adapters"
	"moneytracker/internal/amqp"
	applog "moneytracker/internal/log"
)

// ErrBackupFailed is returned when the backup snapshot could not be written.
// The triggering message is requeued.
var ErrBackupFailed = errors.New("backup write failed")

// DefaultMinInterval coalesces bursts of events into one backup.
const DefaultMinInterval = 2 * time.Second

// BackupWorker keeps the backup snapshot in a shared store current. Every
// record event triggers a backup, at most once per minInterval; events that
// arrive sooner leave a pending flag for FlushPending.
type BackupWorker struct {
	storage     *adapters.StorageAdapter
	logger      *applog.Logger
	minInterval time.Duration
	now         func() time.Time

	mu         sync.Mutex
	lastBackup time.Time
	pending    bool
	processed  map[string]int64
}

func NewBackupWorker(storage *adapters.StorageAdapter, logger *applog.Logger, minInterval time.Duration) *BackupWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	if minInterval < 0 {
		minInterval = DefaultMinInterval
	}
	return &BackupWorker{
		storage:     storage,
		logger:      logger.WithComponent(applog.ComponentWorker),
		minInterval: minInterval,
		now:         time.Now,
		processed:   make(map[string]int64),
	}
}

// WithClock overrides the clock used for throttling.
func (w *BackupWorker) WithClock(now func() time.Time) *BackupWorker {
	w.now = now
	return w
}

// HandleRecordEvent processes a single record event from AMQP.
func (w *BackupWorker) HandleRecordEvent(ctx context.Context, msg *amqp.RecordEvent) error {
	switch msg.Kind {
	case amqp.KindTransaction, amqp.KindGoal, amqp.KindTheme:
	default:
		w.logger.WarnContext(ctx, "Ignoring record event of unknown kind",
			"kind", msg.Kind, "action", msg.Action, "id", msg.ID)
		return nil
	}

	w.mu.Lock()
	w.processed[msg.RoutingKey()]++
	if !w.lastBackup.IsZero() && w.now().Sub(w.lastBackup) < w.minInterval {
		w.pending = true
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Processing record event",
		"kind", msg.Kind, "action", msg.Action, "id", msg.ID)
	return w.backup(ctx)
}

// FlushPending writes the backup if events were throttled since the last one.
// This is also the fallback for lost messages when run on a ticker.
func (w *BackupWorker) FlushPending(ctx context.Context) error {
	w.mu.Lock()
	pending := w.pending
	w.mu.Unlock()
	if !pending {
		return nil
	}
	return w.backup(ctx)
}

// StartupCheck writes a first backup when the store has none yet.
func (w *BackupWorker) StartupCheck(ctx context.Context) error {
	if snap, ok := w.storage.ReadBackup(ctx); ok {
		w.logger.InfoContext(ctx, "Existing backup found",
			"timestamp", snap.Timestamp, "version", snap.Version)
		return nil
	}
	w.logger.InfoContext(ctx, "No backup found, writing initial snapshot")
	return w.backup(ctx)
}

// Stats returns processed event counts keyed by "<kind>.<action>".
func (w *BackupWorker) Stats() map[string]int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]int64, len(w.processed))
	for k, v := range w.processed {
		out[k] = v
	}
	return out
}

func (w *BackupWorker) backup(ctx context.Context) error {
	if !w.storage.Backup(ctx) {
		w.logger.ErrorContext(ctx, "Failed to write backup", applog.FieldOperation, applog.OpBackup)
		return ErrBackupFailed
	}
	w.mu.Lock()
	w.lastBackup = w.now()
	w.pending = false
	w.mu.Unlock()
	return nil
}
