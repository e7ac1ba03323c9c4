package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Candidate struct {
	gorm.Model
	ID       uuid.UUID `gorm:"primaryKey;"`
	FullName string    `gorm:"not null"`
	Phone    string

	// SourcedBy is the executive who first entered the candidate; it seeds
	// AssignedFrom on the very first ownership transition.
	SourcedBy string

	// CurrentOwner mirrors the owning pairing's owner for owner-scoped
	// listing without a join. It is written in the same transaction as the
	// pairing and is never a source of truth.
	CurrentOwner *string `gorm:"index"`

	Pairings []Pairing `gorm:"constraint:OnDelete:CASCADE;"`
}

type CandidateList []Candidate

func (c Candidate) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}
