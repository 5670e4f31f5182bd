package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one captured clipboard item. Entries are immutable once
// created: restore reads an entry's content back to the clipboard, it
// never modifies the entry.
type Entry struct {
	// ID uniquely identifies the entry. IDs are generated at capture
	// time and never reused, so they are stable keys for UI binding.
	ID string `json:"id"`

	// Date is the capture time.
	Date time.Time `json:"date"`

	// Content is the captured payload.
	Content Payload `json:"content"`
}

// NewEntry stamps a payload with a fresh id and the current time.
// Times are stored in UTC so the persisted document is stable across
// locale and timezone settings.
func NewEntry(content Payload) Entry {
	return Entry{
		ID:      uuid.NewString(),
		Date:    time.Now().UTC(),
		Content: content,
	}
}
