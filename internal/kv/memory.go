package kv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"restinvoice/internal/core"
)

type entry struct {
	value     []byte
	expiresAt *time.Time
}

// MemoryStore is an in-process core.SecretStore. Secrets do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock uses now to decide expiry.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: now}
}

func (e entry) expired(now time.Time) bool {
	return e.expiresAt != nil && !now.Before(*e.expiresAt)
}

func (m *MemoryStore) PutIfAbsent(_ context.Context, key string, value []byte, expiresAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expiresAt != nil && !now.Before(*expiresAt) {
		return false, fmt.Errorf("%w: expiry %s is not in the future", core.ErrSecretStore, expiresAt.UTC().Format(time.RFC3339))
	}
	if e, ok := m.entries[key]; ok && !e.expired(now) {
		return false, nil
	}
	m.entries[key] = entry{value: append([]byte(nil), value...), expiresAt: expiresAt}
	return true, nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, core.ErrNotFound
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		// A concurrent write may have replaced the entry since the read lock was released.
		if cur, ok := m.entries[key]; ok && cur.expired(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len counts the stored entries, expired ones included until they are read.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
