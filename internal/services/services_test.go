package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneytracker/internal/adapters"
	"moneytracker/internal/core"
	"moneytracker/internal/kv/memory"
)

type recordedEvent struct {
	kind, action string
	id           int64
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *fakePublisher) PublishRecordEvent(_ context.Context, kind, action string, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind, action, id})
	return p.err
}

type countingNotifier struct{ n int32 }

func (c *countingNotifier) Schedule() { atomic.AddInt32(&c.n, 1) }

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func newDeps() (Deps, *fakePublisher, *countingNotifier) {
	pub := &fakePublisher{}
	notifier := &countingNotifier{}
	return Deps{
		Storage:   adapters.NewStorageAdapter(memory.New(), nil),
		Publisher: pub,
		Updates:   notifier,
		Clock:     func() time.Time { return fixedNow },
	}, pub, notifier
}

func expense(desc string, amount int64) core.Transaction {
	return core.Transaction{
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Type:        core.Expense,
		Category:    "makanan",
		Date:        core.NewDate(2025, 3, 14),
	}
}

func TestTransactionServiceAdd(t *testing.T) {
	ctx := context.Background()
	deps, pub, notifier := newDeps()
	svc := NewTransactionService(deps)

	first, err := svc.Add(ctx, expense("  Bakso  ", 20000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID != fixedNow.UnixMilli() || first.Description != "Bakso" || !first.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected record %+v", first)
	}

	// Same millisecond: id must still be unique.
	second, err := svc.Add(ctx, expense("Es teh", 5000))
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.ID != first.ID+1 {
		t.Fatalf("second id = %d, want %d", second.ID, first.ID+1)
	}

	txs := svc.List(ctx)
	if len(txs) != 2 || txs[0].ID != first.ID || txs[1].ID != second.ID {
		t.Fatalf("unexpected collection %+v", txs)
	}
	if snap, ok := deps.Storage.ReadBackup(ctx); !ok || len(snap.Transactions) != 2 {
		t.Fatal("expected backup after add")
	}
	if len(pub.events) != 2 || pub.events[0].action != "created" || pub.events[0].kind != "transaction" {
		t.Fatalf("unexpected events %+v", pub.events)
	}
	if atomic.LoadInt32(&notifier.n) != 2 {
		t.Fatalf("expected 2 scheduled updates, got %d", notifier.n)
	}
}

func TestTransactionServiceAddRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	deps, pub, notifier := newDeps()
	svc := NewTransactionService(deps)

	tests := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{"future date", func() core.Transaction { tx := expense("x", 1); tx.Date = core.NewDate(2025, 3, 16); return tx }(), core.ErrFutureDate},
		{"wrong category", func() core.Transaction { tx := expense("x", 1); tx.Category = "gaji"; return tx }(), core.ErrInvalidCategory},
		{"blank", expense("   ", 1), core.ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, tt.tx); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
	if len(svc.List(ctx)) != 0 || len(pub.events) != 0 || notifier.n != 0 {
		t.Fatal("rejected input must not persist, publish or schedule")
	}
}

func TestTransactionServiceDelete(t *testing.T) {
	ctx := context.Background()
	deps, pub, _ := newDeps()
	svc := NewTransactionService(deps)

	a, _ := svc.Add(ctx, expense("a", 1))
	b, _ := svc.Add(ctx, expense("b", 2))
	c, _ := svc.Add(ctx, expense("c", 3))

	t.Run("missing id leaves collection unchanged", func(t *testing.T) {
		if err := svc.Delete(ctx, 42); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
		if len(svc.List(ctx)) != 3 || len(svc.UndoLog()) != 0 {
			t.Fatal("collection or undo log changed")
		}
	})

	t.Run("removes exactly one and keeps order", func(t *testing.T) {
		if err := svc.Delete(ctx, b.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		txs := svc.List(ctx)
		if len(txs) != 2 || txs[0].ID != a.ID || txs[1].ID != c.ID {
			t.Fatalf("unexpected collection %+v", txs)
		}
		undo := svc.UndoLog()
		if len(undo) != 1 || undo[0].Transaction.ID != b.ID || undo[0].Action != "delete" {
			t.Fatalf("unexpected undo log %+v", undo)
		}
		last := pub.events[len(pub.events)-1]
		if last.action != "deleted" || last.id != b.ID {
			t.Fatalf("unexpected event %+v", last)
		}
	})
}

// flakyStore fails writes while fail is set.
type flakyStore struct {
	*memory.Store
	fail atomic.Bool
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.fail.Load() {
		return errors.New("quota exceeded")
	}
	return s.Store.Set(ctx, key, value)
}

func TestTransactionServiceDeleteFailureKeepsUndoLogClean(t *testing.T) {
	ctx := context.Background()
	deps, _, _ := newDeps()
	store := &flakyStore{Store: memory.New()}
	deps.Storage = adapters.NewStorageAdapter(store, nil)
	svc := NewTransactionService(deps)

	tx, err := svc.Add(ctx, expense("a", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	store.fail.Store(true)
	if err := svc.Delete(ctx, tx.ID); !errors.Is(err, ErrPersist) {
		t.Fatalf("got %v, want ErrPersist", err)
	}
	if got := svc.UndoLog(); len(got) != 0 {
		t.Fatalf("failed delete recorded in undo log: %+v", got)
	}

	store.fail.Store(false)
	if len(svc.List(ctx)) != 1 {
		t.Fatal("failed delete should leave the collection intact")
	}
}

func TestTransactionServiceWithoutPublisher(t *testing.T) {
	deps, _, _ := newDeps()
	deps.Publisher = nil
	deps.Updates = nil
	svc := NewTransactionService(deps)
	if _, err := svc.Add(context.Background(), expense("a", 1)); err != nil {
		t.Fatalf("add without publisher: %v", err)
	}
}

func TestTransactionServicePublishFailureIsNotFatal(t *testing.T) {
	deps, pub, _ := newDeps()
	pub.err = errors.New("broker down")
	svc := NewTransactionService(deps)
	if _, err := svc.Add(context.Background(), expense("a", 1)); err != nil {
		t.Fatalf("publish failure should not fail add: %v", err)
	}
	if len(svc.List(context.Background())) != 1 {
		t.Fatal("transaction should be persisted")
	}
}

func TestTransactionServiceQuery(t *testing.T) {
	ctx := context.Background()
	deps, _, _ := newDeps()
	svc := NewTransactionService(deps)

	svc.Add(ctx, expense("Sate", 300))
	svc.Add(ctx, expense("Soto", 100))
	income := core.Transaction{Description: "Gaji", Amount: decimal.NewFromInt(1000), Type: core.Income, Category: "gaji", Date: core.NewDate(2025, 3, 1)}
	svc.Add(ctx, income)

	got := svc.Query(ctx, core.Query{Type: "expense", Sort: core.SortAmountAsc})
	if len(got) != 2 || got[0].Description != "Soto" || got[1].Description != "Sate" {
		t.Fatalf("unexpected query result %+v", got)
	}
}

func TestConcurrentAddsAreSerialised(t *testing.T) {
	ctx := context.Background()
	deps, _, _ := newDeps()
	svc := NewTransactionService(deps)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Add(ctx, expense("x", 1)); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	txs := svc.List(ctx)
	if len(txs) != 20 {
		t.Fatalf("expected 20 transactions, got %d", len(txs))
	}
	seen := map[int64]bool{}
	for _, tx := range txs {
		if seen[tx.ID] {
			t.Fatalf("duplicate id %d", tx.ID)
		}
		seen[tx.ID] = true
	}
}
