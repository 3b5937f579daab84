package kv

import "context"

// Store is the string key-value port every persistence backend implements.
// Values are opaque; the adapters layer owns the JSON encoding.
type Store interface {
	// Get returns the value for key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
