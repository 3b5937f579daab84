package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SeedSuffix is the file extension NewFromFiles looks for. A file named
// "moneyTrackerTransactions.json" seeds the key "moneyTrackerTransactions".
const SeedSuffix = ".json"

type Store struct {
	mu    sync.Mutex
	items map[string]string
}

func New() *Store {
	return &Store{items: make(map[string]string)}
}

// NewFromFiles builds a store pre-populated from every *.json file in base.
// A missing or unreadable directory yields an empty store.
func NewFromFiles(base string) *Store {
	s := New()
	if base == "" {
		return s
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		return s
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SeedSuffix) {
			continue
		}
		b, err := os.ReadFile(filepath.Join(base, e.Name()))
		if err != nil {
			continue
		}
		content := strings.TrimSpace(string(b))
		if content == "" {
			continue
		}
		s.items[strings.TrimSuffix(e.Name(), SeedSuffix)] = content
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Keys returns the stored keys, mainly for tests and diagnostics.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	return out
}
