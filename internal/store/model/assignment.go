package model

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentReason string

const (
	ReasonInitialAssignment  AssignmentReason = "initial_assignment"
	ReasonManualReassignment AssignmentReason = "manual_reassignment"
	ReasonExpiredNFD         AssignmentReason = "expired_nfd"
	ReasonClaimedOpenJob     AssignmentReason = "claimed_open_job"
	ReasonManagerOverride    AssignmentReason = "manager_override"
	ReasonManualRelease      AssignmentReason = "manual_release"
)

// AssignmentRecord is an immutable audit row written on every ownership
// transition. Rows are never updated or deleted.
type AssignmentRecord struct {
	ID            uuid.UUID `gorm:"primaryKey;"`
	PairingID     uuid.UUID `gorm:"index;not null"`
	CandidateID   uuid.UUID `gorm:"index;not null"`
	PreviousOwner *string
	NewOwner      *string
	AssignedBy    string
	Reason        AssignmentReason `gorm:"type:VARCHAR;size:30;not null"`
	Notes         string
	CreatedAt     time.Time
}

type AssignmentRecordList []AssignmentRecord
