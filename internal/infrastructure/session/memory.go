package session

import (
	"context"
	"sync"
)

// MemoryBackend keeps entries in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{scopes: make(map[string]map[string]string)}
}

func (b *MemoryBackend) GetEntries(_ context.Context, scope string, keys ...string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := b.scopes[scope][k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (b *MemoryBackend) SetEntries(_ context.Context, scope string, entries map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.scopes[scope]
	if !ok {
		m = make(map[string]string, len(entries))
		b.scopes[scope] = m
	}
	for k, v := range entries {
		m[k] = v
	}
	return nil
}

func (b *MemoryBackend) DeleteEntries(_ context.Context, scope string, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.scopes[scope]
	for _, k := range keys {
		delete(m, k)
	}
	if len(m) == 0 {
		delete(b.scopes, scope)
	}
	return nil
}
