// Package flagstore provides FlagStore implementations for the feedback
// SDK: an in-process map store (the default) and a Redis-backed store for
// hosts that persist the "already asked" flag server-side.
package flagstore

import (
	"context"
	"sync"
)

// Memory is a mutex-guarded in-process flag store. It is the SDK default
// and doubles as the test store. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewMemory creates an empty in-process flag store.
func NewMemory() *Memory {
	return &Memory{flags: make(map[string]bool)}
}

// GetBool returns the stored value for key, false when unset.
func (m *Memory) GetBool(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[key], nil
}

// SetBool stores value under key.
func (m *Memory) SetBool(_ context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = value
	return nil
}
