// Package store defines the persistence contract for the clipboard
// history document.
package store

import (
	"github.com/clipkeep/clipkeep/internal/domain"
)

// Store persists the full ordered history sequence. The in-memory
// history is the source of truth: Save always receives the entire
// sequence, newest first, and implementations replace whatever they
// previously held. There are no partial updates.
type Store interface {
	// Load reads the persisted sequence, newest first. A missing
	// document is not an error and yields an empty sequence. A present
	// but unparseable document is an error; callers decide how soft
	// that failure is.
	Load() ([]domain.Entry, error)

	// Save replaces the persisted document with the given sequence.
	// An empty or nil sequence persists an explicitly empty document.
	Save(entries []domain.Entry) error

	// Close releases any resources (file handles, DB connections).
	Close() error
}
