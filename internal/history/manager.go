// Package history holds the in-memory clipboard history and keeps the
// persistent store and subscribers in sync with it.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clipkeep/clipkeep/internal/clipboard"
	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/store"
)

// ErrNotFound is returned by Restore when no entry has the given id.
var ErrNotFound = errors.New("history entry not found")

// Manager owns the history sequence, newest first. All operations are
// serialized on one mutex, and every mutation persists the full
// sequence and notifies subscribers before the mutex is released. The
// in-memory sequence is authoritative: a failing store never blocks a
// mutation, it is only logged.
type Manager struct {
	store store.Store
	board clipboard.Backend
	log   *slog.Logger

	mu           sync.Mutex
	entries      []domain.Entry
	suppressNext bool
	subscribers  map[int]func([]domain.Entry)
	nextSubID    int
}

// NewManager creates a manager backed by the given store and clipboard.
// A history that cannot be loaded is logged and replaced with an empty
// one rather than failing startup.
func NewManager(st store.Store, board clipboard.Backend) *Manager {
	log := slog.With("component", "history")

	entries, err := st.Load()
	if err != nil {
		log.Warn("could not load saved history, starting empty", "error", err)
		entries = nil
	} else if len(entries) > 0 {
		log.Info("loaded saved history", "entries", len(entries))
	}

	return &Manager{
		store:       st,
		board:       board,
		log:         log,
		entries:     entries,
		subscribers: make(map[int]func([]domain.Entry)),
	}
}

// Capture prepends a new entry for the observed payload and returns
// it. Duplicates of earlier entries are kept: the history records every
// observed change in order.
func (m *Manager) Capture(payload domain.Payload) domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := domain.NewEntry(payload)
	m.entries = append([]domain.Entry{entry}, m.entries...)

	m.log.Debug("captured clipboard change", "id", entry.ID, "type", entry.Content.Type)
	m.persistLocked()
	m.notifyLocked()
	return entry
}

// Entries returns a copy of the history, newest first.
func (m *Manager) Entries() []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Get returns the entry with the given id.
func (m *Manager) Get(id string) (domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Entry{}, ErrNotFound
}

// Len returns the number of entries in the history.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Restore copies the entry with the given id back onto the system
// clipboard. The entry stays where it is in the history; the write is
// marked as self-inflicted so the poller skips the change it causes
// instead of recording the content a second time. A failed write
// clears that mark again and is returned to the caller.
func (m *Manager) Restore(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entry *domain.Entry
	for i := range m.entries {
		if m.entries[i].ID == id {
			entry = &m.entries[i]
			break
		}
	}
	if entry == nil {
		return ErrNotFound
	}

	// Arm before writing so the change is already marked when the
	// poller sees the counter move.
	m.suppressNext = true

	var err error
	switch entry.Content.Type {
	case domain.KindText:
		err = m.board.WriteText(entry.Content.Value)
	case domain.KindImage:
		err = m.board.WriteImage(entry.Content.Bytes)
	}
	if err != nil {
		m.suppressNext = false
		return fmt.Errorf("write clipboard: %w", err)
	}

	m.log.Info("restored entry to clipboard", "id", entry.ID, "type", entry.Content.Type)
	return nil
}

// Clear empties the history. The empty sequence is persisted and
// announced like any other mutation, even when the history was already
// empty.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	m.log.Info("cleared history")
	m.persistLocked()
	m.notifyLocked()
}

// ConsumeSelfWrite reports whether the most recent clipboard change
// was caused by Restore, and disarms the mark. The mark is single
// shot: it applies to the next observed change only, whatever its
// content turns out to be.
func (m *Manager) ConsumeSelfWrite() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	armed := m.suppressNext
	m.suppressNext = false
	return armed
}

// Subscribe registers a callback invoked with a snapshot of the full
// history after every mutation. The callback runs synchronously while
// the manager is locked, so it must not call back into the manager.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func([]domain.Entry)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// persistLocked writes the current sequence to the store. Failures are
// logged and otherwise ignored: the in-memory history stays valid and
// the next mutation retries the full rewrite anyway.
func (m *Manager) persistLocked() {
	if err := m.store.Save(m.entries); err != nil {
		m.log.Warn("could not persist history", "error", err, "entries", len(m.entries))
	}
}

// notifyLocked hands every subscriber its own snapshot of the sequence.
func (m *Manager) notifyLocked() {
	if len(m.subscribers) == 0 {
		return
	}
	snapshot := m.snapshotLocked()
	for _, fn := range m.subscribers {
		fn(snapshot)
	}
}

func (m *Manager) snapshotLocked() []domain.Entry {
	out := make([]domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
