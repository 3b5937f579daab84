package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreGetSet(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "moneytracker.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if _, found, err := s.Get(ctx, "moneyTrackerTransactions"); found || err != nil {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	tests := []struct {
		name  string
		value string
	}{
		{"insert", `[]`},
		{"overwrite", `[{"id":1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(ctx, "moneyTrackerTransactions", tt.value); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, found, err := s.Get(ctx, "moneyTrackerTransactions")
			if err != nil || !found || got != tt.value {
				t.Fatalf("got %q found=%v err=%v, want %q", got, found, err, tt.value)
			}
		})
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "moneytracker.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Set(ctx, "moneyTrackerTheme", `"dark"`); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	// Migrations are idempotent on an existing database.
	s, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()

	got, found, err := s.Get(ctx, "moneyTrackerTheme")
	if err != nil || !found || got != `"dark"` {
		t.Fatalf("got %q found=%v err=%v", got, found, err)
	}
}
