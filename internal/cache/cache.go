// Package cache memoizes directory listings for the lifetime of one browser.
package cache

import "sync"

// Memo is an unbounded key-value memo. Entries never expire and are never
// evicted; the first value stored for a key is kept.
type Memo[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// New creates an empty Memo.
func New[V any]() *Memo[V] {
	return &Memo[V]{items: make(map[string]V)}
}

// Get returns the value stored under key, if any.
func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Put stores v under key unless the key is already populated.
func (m *Memo[V]) Put(key string, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; ok {
		return
	}
	m.items[key] = v
}

// Len returns the number of populated keys.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
