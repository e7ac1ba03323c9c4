// Package v1alpha1 holds the request and response shapes of the back-office
// engine's HTTP surface.
package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentOK       AssignmentStatus = "ok"
	AssignmentConflict AssignmentStatus = "conflict"
	AssignmentError    AssignmentStatus = "error"
)

type AssignRequest struct {
	NewOwner            string     `json:"newOwner" validate:"required,employee_code"`
	AssignedBy          string     `json:"assignedBy" validate:"omitempty,employee_code"`
	FeedbackText        string     `json:"feedbackText,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	NextFollowUpDate    *time.Time `json:"nfdDate,omitempty"`
	InterviewDate       *time.Time `json:"interviewDate,omitempty"`
	ExpectedJoiningDate *time.Time `json:"expectedJoiningDate,omitempty"`
	ManagerOverride     bool       `json:"managerOverride,omitempty"`
}

// ClaimRequest carries an optional claimant; when empty the authenticated
// caller claims for themselves.
type ClaimRequest struct {
	Claimant string `json:"claimant" validate:"omitempty,employee_code"`
}

type AssignmentResult struct {
	Status  AssignmentStatus `json:"status"`
	Message string           `json:"message,omitempty"`
	Pairing *Pairing         `json:"pairing,omitempty"`
}

type Pairing struct {
	ID                  uuid.UUID  `json:"id"`
	CandidateID         uuid.UUID  `json:"candidateId"`
	ClientName          string     `json:"clientName"`
	State               string     `json:"state"`
	Owner               *string    `json:"owner,omitempty"`
	AssignedBy          *string    `json:"assignedBy,omitempty"`
	AssignedFrom        *string    `json:"assignedFrom,omitempty"`
	TransferredAt       *time.Time `json:"transferredAt,omitempty"`
	Remark              string     `json:"remark"`
	NextFollowUpDate    *time.Time `json:"nextFollowUpDate,omitempty"`
	InterviewDate       *time.Time `json:"interviewDate,omitempty"`
	ExpectedJoiningDate *time.Time `json:"expectedJoiningDate,omitempty"`
	ProfileSubmitted    bool       `json:"profileSubmitted"`
}

type FeedbackRequest struct {
	Text       string     `json:"text" validate:"required"`
	Remark     string     `json:"remark,omitempty"`
	CallStatus string     `json:"callStatus,omitempty"`
	EntryID    *uuid.UUID `json:"entryId,omitempty"`
}

type FeedbackEntry struct {
	ID             uuid.UUID  `json:"id"`
	PairingID      uuid.UUID  `json:"pairingId"`
	Text           string     `json:"text"`
	RemarkSnapshot string     `json:"remarkSnapshot,omitempty"`
	CallStatus     string     `json:"callStatus,omitempty"`
	EnteredBy      string     `json:"enteredBy"`
	EnteredAt      time.Time  `json:"enteredAt"`
	AmendedAt      *time.Time `json:"amendedAt,omitempty"`
}

type TimelineEntry struct {
	ID                uuid.UUID  `json:"id"`
	CandidateID       uuid.UUID  `json:"candidateId"`
	PairingID         *uuid.UUID `json:"pairingId,omitempty"`
	ClientName        string     `json:"clientName,omitempty"`
	Remark            string     `json:"remark"`
	ProfileSubmission *bool      `json:"profileSubmission,omitempty"`
	Attended          bool       `json:"attended,omitempty"`
	ExtraNotes        string     `json:"extraNotes,omitempty"`
	ChangeDate        time.Time  `json:"changeDate"`
	CreatedBy         string     `json:"createdBy,omitempty"`
}

type CalendarEvent struct {
	CandidateID    uuid.UUID  `json:"candidateId"`
	PairingID      *uuid.UUID `json:"pairingId,omitempty"`
	Type           string     `json:"type"`
	MultipleEvents bool       `json:"multipleEvents"`
}

type CalendarDay struct {
	Date   string          `json:"date"`
	Events []CalendarEvent `json:"events"`
	Counts map[string]int  `json:"counts"`
}

type Calendar struct {
	Totals map[string]int `json:"totals"`
	Days   []CalendarDay  `json:"events"`
}

type BucketView struct {
	OnPlan           []uuid.UUID `json:"onPlan"`
	OnOthers         []uuid.UUID `json:"onOthers"`
	OnProfiles       []uuid.UUID `json:"onProfiles"`
	OnProfilesOthers []uuid.UUID `json:"onProfilesOthers"`
}

type CallingEvent struct {
	ID            uuid.UUID  `json:"id"`
	ExecutiveCode string     `json:"executiveCode"`
	PlanDate      string     `json:"planDate"`
	Slot          int        `json:"slot"`
	Buckets       BucketView `json:"buckets"`
}

type SweepResult struct {
	Processed int `json:"processed"`
}

type Error struct {
	Message string `json:"message"`
}
