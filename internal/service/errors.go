package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrPairingNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "pairing")
}

func NewErrCandidateNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "candidate")
}

func NewErrCallingEventNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "calling event")
}

func NewErrFeedbackEntryNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "feedback entry")
}

type ErrNotAssignable struct {
	error
}

func NewErrNotAssignable(pairingID uuid.UUID, owner string) *ErrNotAssignable {
	return &ErrNotAssignable{fmt.Errorf("pairing %s is owned by %s and its follow-up date has not lapsed", pairingID, owner)}
}

type ErrPermissionDenied struct {
	error
}

func NewErrPermissionDenied(pairingID uuid.UUID, owner, caller string) *ErrPermissionDenied {
	return &ErrPermissionDenied{fmt.Errorf("pairing %s belongs to %s; %s may not modify it", pairingID, owner, caller)}
}

// ErrUpdateConflict marks a lost write race. Callers should re-read and
// retry.
type ErrUpdateConflict struct {
	error
}

func NewErrUpdateConflict(pairingID uuid.UUID) *ErrUpdateConflict {
	return &ErrUpdateConflict{fmt.Errorf("pairing %s was assigned concurrently", pairingID)}
}

type ErrInvalidInput struct {
	error
}

func NewErrInvalidInput(format string, args ...any) *ErrInvalidInput {
	return &ErrInvalidInput{fmt.Errorf(format, args...)}
}
