package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, found, err := s.Get(ctx, "missing"); found || err != nil {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, "k", `"v1"`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "k", `"v2"`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != `"v2"` {
		t.Fatalf("unexpected get: v=%q found=%v err=%v", v, found, err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> empty store
	if keys := NewFromFiles(dir).Keys(); len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}
	if keys := NewFromFiles(filepath.Join(dir, "nope")).Keys(); len(keys) != 0 {
		t.Fatalf("expected empty store for missing dir, got %v", keys)
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("moneyTrackerTheme.json", "\"dark\"\n")
	mustWrite("empty.json", "   \n")
	mustWrite("notes.txt", "ignored")

	s := NewFromFiles(dir)
	v, found, _ := s.Get(context.Background(), "moneyTrackerTheme")
	if !found || v != `"dark"` {
		t.Fatalf("unexpected seed: v=%q found=%v", v, found)
	}
	if len(s.Keys()) != 1 {
		t.Fatalf("expected only the theme key, got %v", s.Keys())
	}
}
