package model

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackEntry is one entry of a pairing's calling log. Entries may be
// amended by id (text, remark snapshot and call status only) but are never
// reordered or deleted; EnteredAt always reflects the original append.
type FeedbackEntry struct {
	ID        uuid.UUID `gorm:"primaryKey;"`
	PairingID uuid.UUID `gorm:"index;not null"`

	Text           string
	RemarkSnapshot string
	CallStatus     string

	EnteredBy string
	EnteredAt time.Time
	AmendedAt *time.Time
}

type FeedbackEntryList []FeedbackEntry
