// Package kvcache provides the byte-oriented backing stores behind the
// resolver caches. Entries never expire.
package kvcache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a concurrent-safe key/value store. Set overwrites; for equivalent
// values racing writers are harmless.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// GetJSON decodes the value at key into a T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var v T
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decode cache entry %q: %w", key, err)
	}
	return v, true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

type prefixed struct {
	prefix string
	store  Store
}

// WithPrefix namespaces every key of s, letting several caches share one backend.
func WithPrefix(s Store, prefix string) Store {
	return &prefixed{prefix: prefix, store: s}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.store.Set(ctx, p.prefix+key, value)
}
