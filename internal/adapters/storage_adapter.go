package adapters

import (
	"context"
	"encoding/json"
	"time"

	"moneytracker/internal/core"
	"moneytracker/internal/kv"
	applog "moneytracker/internal/log"
)

// Storage keys. Kept verbatim so existing browser exports load unchanged.
const (
	KeyTransactions = "moneyTrackerTransactions"
	KeySavings      = "moneyTrackerSavings"
	KeyTheme        = "moneyTrackerTheme"
	KeyBackup       = "moneyTracker_backup"

	DataVersion  = "2.0"
	DefaultTheme = "light"
)

// BackupSnapshot is the blob written under KeyBackup.
type BackupSnapshot struct {
	Transactions []core.Transaction `json:"transactions"`
	Savings      []core.SavingsGoal `json:"savings"`
	Theme        string             `json:"theme"`
	Version      string             `json:"version"`
	Timestamp    time.Time          `json:"timestamp"`
}

// StorageAdapter encodes values as JSON on top of a kv.Store. It never
// surfaces storage errors: reads degrade to the caller's default and writes
// report a boolean.
type StorageAdapter struct {
	store  kv.Store
	logger *applog.Logger
	now    func() time.Time
}

func NewStorageAdapter(store kv.Store, logger *applog.Logger) *StorageAdapter {
	if logger == nil {
		logger = applog.Discard()
	}
	return &StorageAdapter{
		store:  store,
		logger: logger.WithComponent(applog.ComponentStorage),
		now:    time.Now,
	}
}

// WithClock overrides the clock used for backup timestamps.
func (a *StorageAdapter) WithClock(now func() time.Time) *StorageAdapter {
	a.now = now
	return a
}

// Load decodes the value stored under key into a T. A missing or empty
// entry, a backend error or undecodable JSON all yield def.
func Load[T any](ctx context.Context, a *StorageAdapter, key string, def T) T {
	var out T
	if !a.Get(ctx, key, &out) {
		return def
	}
	return out
}

// Get decodes the stored value into dst and reports whether it did.
func (a *StorageAdapter) Get(ctx context.Context, key string, dst any) bool {
	raw, found, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.ErrorContext(ctx, "Error reading key",
			applog.FieldKey, key, applog.FieldOperation, applog.OpRead, applog.FieldError, err)
		return false
	}
	if !found || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.logger.ErrorContext(ctx, "Error decoding key",
			applog.FieldKey, key, applog.FieldOperation, applog.OpRead, applog.FieldError, err)
		return false
	}
	return true
}

// Set encodes value and writes it under key.
func (a *StorageAdapter) Set(ctx context.Context, key string, value any) bool {
	b, err := json.Marshal(value)
	if err != nil {
		a.logger.ErrorContext(ctx, "Error encoding key",
			applog.FieldKey, key, applog.FieldOperation, applog.OpUpdate, applog.FieldError, err)
		return false
	}
	if err := a.store.Set(ctx, key, string(b)); err != nil {
		a.logger.ErrorContext(ctx, "Error saving key",
			applog.FieldKey, key, applog.FieldOperation, applog.OpUpdate, applog.FieldError, err)
		return false
	}
	return true
}

// Backup copies the current collections and theme into KeyBackup.
func (a *StorageAdapter) Backup(ctx context.Context) bool {
	snap := BackupSnapshot{
		Transactions: a.Transactions(ctx),
		Savings:      a.Savings(ctx),
		Theme:        a.Theme(ctx),
		Version:      DataVersion,
		Timestamp:    a.now().UTC(),
	}
	ok := a.Set(ctx, KeyBackup, snap)
	if ok {
		a.logger.DebugContext(ctx, "Backup written",
			applog.FieldOperation, applog.OpBackup,
			applog.FieldCount, len(snap.Transactions)+len(snap.Savings))
	}
	return ok
}

// ReadBackup returns the last backup, if any. There is no restore path.
func (a *StorageAdapter) ReadBackup(ctx context.Context) (BackupSnapshot, bool) {
	var snap BackupSnapshot
	ok := a.Get(ctx, KeyBackup, &snap)
	return snap, ok
}

func (a *StorageAdapter) Transactions(ctx context.Context) []core.Transaction {
	return Load(ctx, a, KeyTransactions, []core.Transaction{})
}

func (a *StorageAdapter) Savings(ctx context.Context) []core.SavingsGoal {
	return Load(ctx, a, KeySavings, []core.SavingsGoal{})
}

func (a *StorageAdapter) Theme(ctx context.Context) string {
	return Load(ctx, a, KeyTheme, DefaultTheme)
}
