package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"moneytracker/internal/adapters"
	"moneytracker/internal/amqp"
	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
)

const maxUndoEntries = 100

// UndoEntry records a deleted transaction. Nothing replays it yet.
type UndoEntry struct {
	Action      string
	Transaction core.Transaction
	Timestamp   time.Time
}

// TransactionService owns every mutation of the transaction collection.
// Each mutation rewrites the whole collection, so writers are serialised.
type TransactionService struct {
	deps Deps

	mu   sync.Mutex
	undo []UndoEntry
}

func NewTransactionService(deps Deps) *TransactionService {
	return &TransactionService{deps: deps.withDefaults(applog.ComponentTransactions)}
}

// Add validates tx, assigns its id and creation time and appends it.
// Any ID or CreatedAt set by the caller is ignored.
func (s *TransactionService) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	now := s.deps.Clock()
	tx.Description = strings.TrimSpace(tx.Description)
	if err := tx.Validate(core.DateOf(now)); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}

	txs := s.deps.Storage.Transactions(ctx)
	var lastID int64
	for _, t := range txs {
		lastID = max(lastID, t.ID)
	}
	tx.ID = nextID(now, lastID)
	tx.CreatedAt = now.UTC()
	txs = append(txs, tx)

	if !s.deps.Storage.Set(ctx, adapters.KeyTransactions, txs) {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("add transaction: %w", ErrPersist)
	}
	s.deps.Storage.Backup(ctx)
	s.mu.Unlock()

	s.deps.Logger.InfoContext(ctx, "Transaction added",
		applog.NewFields().WithTransaction(tx).WithOperation(applog.OpCreate).ToSlice()...)
	s.deps.publish(ctx, amqp.KindTransaction, amqp.ActionCreated, tx.ID)
	s.deps.scheduleUpdate()
	return tx, nil
}

// Delete removes the transaction with id. An unknown id returns ErrNotFound
// and leaves the collection untouched.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	txs := s.deps.Storage.Transactions(ctx)
	idx := -1
	for i, t := range txs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete transaction %d: %w", id, ErrNotFound)
	}
	deleted := txs[idx]

	remaining := make([]core.Transaction, 0, len(txs)-1)
	remaining = append(remaining, txs[:idx]...)
	remaining = append(remaining, txs[idx+1:]...)
	if !s.deps.Storage.Set(ctx, adapters.KeyTransactions, remaining) {
		s.mu.Unlock()
		return fmt.Errorf("delete transaction %d: %w", id, ErrPersist)
	}
	s.pushUndo(UndoEntry{Action: applog.OpDelete, Transaction: deleted, Timestamp: s.deps.Clock()})
	s.deps.Storage.Backup(ctx)
	s.mu.Unlock()

	s.deps.Logger.InfoContext(ctx, "Transaction deleted",
		applog.NewFields().WithTransaction(deleted).WithOperation(applog.OpDelete).ToSlice()...)
	s.deps.publish(ctx, amqp.KindTransaction, amqp.ActionDeleted, id)
	s.deps.scheduleUpdate()
	return nil
}

// List returns the whole collection in insertion order.
func (s *TransactionService) List(ctx context.Context) []core.Transaction {
	return s.deps.Storage.Transactions(ctx)
}

// Query filters, searches and sorts the collection.
func (s *TransactionService) Query(ctx context.Context, q core.Query) []core.Transaction {
	return q.Apply(s.List(ctx))
}

// UndoLog returns a copy of the recorded deletions, oldest first.
func (s *TransactionService) UndoLog() []UndoEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UndoEntry(nil), s.undo...)
}

// pushUndo is called with mu held.
func (s *TransactionService) pushUndo(e UndoEntry) {
	s.undo = append(s.undo, e)
	if len(s.undo) > maxUndoEntries {
		s.undo = s.undo[len(s.undo)-maxUndoEntries:]
	}
}
