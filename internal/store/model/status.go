package model

import (
	"time"

	"github.com/google/uuid"
)

// StatusEntry is one row of the append-only status timeline. A remark may
// map to several entries over time; the table is a history, not a current
// state.
type StatusEntry struct {
	ID          uuid.UUID  `gorm:"primaryKey;"`
	CandidateID uuid.UUID  `gorm:"index;not null"`
	PairingID   *uuid.UUID `gorm:"index"`
	VendorID    *int64

	ClientName        string
	Remark            string `gorm:"not null"`
	ProfileSubmission *bool
	Attended          bool
	ExtraNotes        string

	ChangeDate time.Time `gorm:"index;not null"`
	CreatedBy  string
	CreatedAt  time.Time
}

type StatusEntryList []StatusEntry
