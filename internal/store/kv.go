// Package store persists nutriplan's two named records (saved plans and
// progress entries) in a durable key-value store.
//
// The store holds opaque serialized text per key. Records layers the
// domain codecs on top; it never surfaces read failures to callers, so a
// corrupt or missing record behaves like an empty collection.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// KV is a durable map from record name to serialized text.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryKV is an in-process KV used by tests and ephemeral sessions.
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put implements KV.
func (m *MemoryKV) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Close implements KV.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
