package dbstore

import (
	"fmt"
	"time"

	"github.com/clipkeep/clipkeep/internal/domain"
)

// EntryModel is one history entry row. Position preserves capture
// order: 0 is the head (newest) entry at the time of the save. The
// table is rewritten wholesale on every save, so positions are never
// updated in place.
type EntryModel struct {
	Position int       `gorm:"primaryKey;autoIncrement:false"`
	EntryID  string    `gorm:"size:64;not null;index"`
	Date     time.Time `gorm:"not null"`
	Kind     string    `gorm:"size:16;not null"`
	Text     string    `gorm:"type:text"`
	Image    []byte    `gorm:"type:blob"`
}

// TableName returns the table name for EntryModel.
func (EntryModel) TableName() string {
	return "history_entries"
}

// toEntry converts a row back into a domain entry, rejecting rows
// whose kind or content no longer satisfies the payload invariants.
func (m *EntryModel) toEntry() (domain.Entry, error) {
	var payload domain.Payload
	switch domain.Kind(m.Kind) {
	case domain.KindText:
		p, ok := domain.NewText(m.Text)
		if !ok {
			return domain.Entry{}, fmt.Errorf("text row %q has empty value", m.EntryID)
		}
		payload = p
	case domain.KindImage:
		p, ok := domain.NewImage(m.Image)
		if !ok {
			return domain.Entry{}, fmt.Errorf("image row %q has empty bytes", m.EntryID)
		}
		payload = p
	default:
		return domain.Entry{}, fmt.Errorf("row %q has unknown kind %q", m.EntryID, m.Kind)
	}

	return domain.Entry{
		ID:      m.EntryID,
		Date:    m.Date,
		Content: payload,
	}, nil
}

// fromEntry converts a domain entry into a row at the given position.
func fromEntry(position int, e domain.Entry) EntryModel {
	return EntryModel{
		Position: position,
		EntryID:  e.ID,
		Date:     e.Date,
		Kind:     string(e.Content.Type),
		Text:     e.Content.Value,
		Image:    e.Content.Bytes,
	}
}
