// Package memstore provides an in-memory store implementation for
// tests and the demo.
package memstore

import (
	"slices"
	"sync"

	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/store"
)

// MemoryStore implements store.Store entirely in memory. It records
// how often Save ran and can be told to fail, which the history
// manager tests use to exercise persistence failure paths.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []domain.Entry
	saves   int
	loadErr error
	saveErr error
}

var _ store.Store = (*MemoryStore)(nil)

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{}
}

// Load implements store.Store.
func (m *MemoryStore) Load() ([]domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return slices.Clone(m.entries), nil
}

// Save implements store.Store.
func (m *MemoryStore) Save(entries []domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = slices.Clone(entries)
	m.saves++
	return nil
}

// Close implements store.Store.
func (m *MemoryStore) Close() error {
	return nil
}

// FailLoads makes subsequent Load calls return err. Pass nil to
// restore normal behavior.
func (m *MemoryStore) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSaves makes subsequent Save calls return err. Pass nil to
// restore normal behavior.
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SaveCount returns how many times Save succeeded.
func (m *MemoryStore) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Entries returns a snapshot of the stored sequence.
func (m *MemoryStore) Entries() []domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.entries)
}
