package store

import (
	"context"
	"sync"
)

// Memory is an in-process store.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	maxBytes int64
	closed   bool
}

// NewMemory creates a memory store. maxBytes of zero means unlimited.
func NewMemory(maxBytes int64) *Memory {
	return &Memory{data: make(map[string]string), maxBytes: maxBytes}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements Store.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.maxBytes > 0 {
		used := m.usedLocked()
		if old, ok := m.data[key]; ok {
			used -= entrySize(key, old)
		}
		if used+entrySize(key, value) > m.maxBytes {
			return ErrQuotaExceeded
		}
	}
	m.data[key] = value
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) usedLocked() int64 {
	var n int64
	for k, v := range m.data {
		n += entrySize(k, v)
	}
	return n
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
