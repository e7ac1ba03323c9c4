package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/events"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
	"github.com/placementdesk/backoffice/pkg/metrics"
	"go.uber.org/zap"
)

// eventWriter is the slice of events.EventProducer the service needs; nil
// disables emission (tests, migrate command).
type eventWriter interface {
	Write(ctx context.Context, kind string, body io.Reader) error
}

type OwnershipService struct {
	store    store.Store
	producer eventWriter
}

func NewOwnershipService(store store.Store, producer eventWriter) *OwnershipService {
	return &OwnershipService{store: store, producer: producer}
}

type AssignForm struct {
	NewOwner            string
	AssignedBy          string
	FeedbackText        string
	Notes               string
	NextFollowUpDate    *time.Time
	InterviewDate       *time.Time
	ExpectedJoiningDate *time.Time

	// ManagerOverride bypasses the assignability gate and is audited as
	// such.
	ManagerOverride bool
}

type UpdateForm struct {
	Remark              *string
	ProfileStatus       *string
	NextFollowUpDate    *time.Time
	InterviewDate       *time.Time
	ExpectedJoiningDate *time.Time
	ProfileSubmitted    *bool
}

// Assign moves ownership of a pairing to form.NewOwner. The whole transition
// runs in one transaction with a compare-and-swap on the pairing's version,
// so two racing writers cannot both succeed.
func (s *OwnershipService) Assign(ctx context.Context, pairingID uuid.UUID, form AssignForm) (*model.Pairing, error) {
	if form.NewOwner == "" {
		return nil, NewErrInvalidInput("new owner is required")
	}
	if form.AssignedBy == "" {
		form.AssignedBy = form.NewOwner
	}
	return s.transfer(ctx, pairingID, form, "")
}

// Claim is an assignment onto an open pairing by the claimant themselves.
func (s *OwnershipService) Claim(ctx context.Context, pairingID uuid.UUID, claimant string) (*model.Pairing, error) {
	if claimant == "" {
		return nil, NewErrInvalidInput("claimant is required")
	}
	return s.transfer(ctx, pairingID, AssignForm{NewOwner: claimant, AssignedBy: claimant}, model.ReasonClaimedOpenJob)
}

func (s *OwnershipService) transfer(ctx context.Context, pairingID uuid.UUID, form AssignForm, reasonHint model.AssignmentReason) (*model.Pairing, error) {
	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	pairing, err := s.store.Pairing().Get(ctx, pairingID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPairingNotFound(pairingID)
		}
		return nil, err
	}

	today := time.Now().UTC()
	overridden := false
	if !pairing.IsAssignableTo(form.NewOwner, today) {
		if !form.ManagerOverride {
			_, _ = store.Rollback(ctx)
			owner := ""
			if pairing.Owner != nil {
				owner = *pairing.Owner
			}
			return nil, NewErrNotAssignable(pairingID, owner)
		}
		overridden = true
	}

	previousOwner := pairing.Owner
	reason := reasonHint
	if reason == "" {
		if previousOwner == nil {
			reason = model.ReasonInitialAssignment
		} else {
			reason = model.ReasonManualReassignment
		}
	}
	if overridden {
		reason = model.ReasonManagerOverride
	}

	assignedFrom := previousOwner
	if assignedFrom == nil {
		// first assignment: record the originating executive
		candidate, err := s.store.Candidate().Get(ctx, pairing.CandidateID)
		if err != nil {
			_, _ = store.Rollback(ctx)
			return nil, err
		}
		if candidate.SourcedBy != "" {
			assignedFrom = &candidate.SourcedBy
		}
	}

	expectedVersion := pairing.Version
	now := time.Now().UTC()

	pairing.State = model.OwnershipAssigned
	pairing.Owner = &form.NewOwner
	pairing.AssignedBy = &form.AssignedBy
	pairing.AssignedFrom = assignedFrom
	pairing.TransferredAt = &now
	if form.NextFollowUpDate != nil {
		pairing.NextFollowUpDate = form.NextFollowUpDate
	}
	// a transfer invalidates the previous owner's schedule unless the new
	// owner re-supplies it
	pairing.InterviewDate = form.InterviewDate
	pairing.ExpectedJoiningDate = form.ExpectedJoiningDate

	if _, err := s.store.Pairing().UpdateOwnership(ctx, pairing, expectedVersion); err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrConcurrentUpdate) {
			metrics.IncAssignmentConflicts()
			return nil, NewErrUpdateConflict(pairingID)
		}
		return nil, err
	}

	if err := s.store.Candidate().SetCurrentOwner(ctx, pairing.CandidateID, &form.NewOwner); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	record := model.AssignmentRecord{
		PairingID:     pairing.ID,
		CandidateID:   pairing.CandidateID,
		PreviousOwner: previousOwner,
		NewOwner:      &form.NewOwner,
		AssignedBy:    form.AssignedBy,
		Reason:        reason,
		Notes:         form.Notes,
		CreatedAt:     now,
	}
	if _, err := s.store.AssignmentHistory().Append(ctx, record); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	statusEntry := model.StatusEntry{
		CandidateID: pairing.CandidateID,
		PairingID:   &pairing.ID,
		ClientName:  pairing.ClientName,
		Remark:      fmt.Sprintf("assigned to %s", form.NewOwner),
		ExtraNotes:  form.Notes,
		ChangeDate:  now,
		CreatedBy:   form.AssignedBy,
		CreatedAt:   now,
	}
	if _, err := s.store.StatusHistory().Append(ctx, statusEntry); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if form.FeedbackText != "" {
		entry := model.FeedbackEntry{
			PairingID:      pairing.ID,
			Text:           SanitizeText(form.FeedbackText),
			RemarkSnapshot: pairing.EffectiveRemark(),
			EnteredBy:      form.AssignedBy,
			EnteredAt:      now,
		}
		if _, err := s.store.Feedback().Append(ctx, entry); err != nil {
			_, _ = store.Rollback(ctx)
			return nil, err
		}
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.emit(ctx, events.OwnershipMessageKind, events.OwnershipEvent{
		PairingID:     pairing.ID.String(),
		CandidateID:   pairing.CandidateID.String(),
		PreviousOwner: previousOwner,
		NewOwner:      form.NewOwner,
		Reason:        string(reason),
	})

	return pairing, nil
}

// UpdatePairing applies a guarded edit. Only the current owner may mutate an
// owned pairing; open and expired pairings are editable by anyone so they
// can be worked before claiming. Writing the "open profile" remark is the
// legacy release gesture and is mapped to an explicit release.
func (s *OwnershipService) UpdatePairing(ctx context.Context, pairingID uuid.UUID, caller string, form UpdateForm) (*model.Pairing, error) {
	if form.Remark != nil && strings.EqualFold(strings.TrimSpace(*form.Remark), model.OpenProfileRemark) {
		return s.releaseByCaller(ctx, pairingID, caller, form)
	}

	pairing, err := s.store.Pairing().Get(ctx, pairingID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPairingNotFound(pairingID)
		}
		return nil, err
	}

	if err := EnsureEditable(pairing, caller); err != nil {
		return nil, err
	}

	fields := []string{}
	if form.Remark != nil {
		pairing.Remark = *form.Remark
		fields = append(fields, "remark")
	}
	if form.ProfileStatus != nil {
		pairing.ProfileStatus = form.ProfileStatus
		fields = append(fields, "profile_status")
	}
	if form.NextFollowUpDate != nil {
		pairing.NextFollowUpDate = form.NextFollowUpDate
		fields = append(fields, "next_follow_up_date")
	}
	if form.InterviewDate != nil {
		pairing.InterviewDate = form.InterviewDate
		fields = append(fields, "interview_date")
	}
	if form.ExpectedJoiningDate != nil {
		pairing.ExpectedJoiningDate = form.ExpectedJoiningDate
		fields = append(fields, "expected_joining_date")
	}
	if form.ProfileSubmitted != nil {
		pairing.ProfileSubmitted = *form.ProfileSubmitted
		fields = append(fields, "profile_submitted")
		if *form.ProfileSubmitted && pairing.ProfileSubmittedAt == nil {
			now := time.Now().UTC()
			pairing.ProfileSubmittedAt = &now
			fields = append(fields, "profile_submitted_at")
		}
	}
	if len(fields) == 0 {
		return pairing, nil
	}

	return s.store.Pairing().UpdateFields(ctx, pairing, fields...)
}

// releaseByCaller returns a pairing to the unassigned state in response to
// the owner writing the "open profile" remark. The edit guard still applies;
// the release runs under the same version guard as Assign.
func (s *OwnershipService) releaseByCaller(ctx context.Context, pairingID uuid.UUID, caller string, form UpdateForm) (*model.Pairing, error) {
	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	pairing, err := s.store.Pairing().Get(ctx, pairingID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPairingNotFound(pairingID)
		}
		return nil, err
	}
	if err := EnsureEditable(pairing, caller); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	previousOwner := pairing.Owner
	expectedVersion := pairing.Version
	now := time.Now().UTC()

	pairing.State = model.OwnershipUnassigned
	pairing.Owner = nil
	pairing.AssignedBy = nil
	pairing.TransferredAt = &now
	pairing.Remark = *form.Remark
	if form.ProfileStatus != nil {
		pairing.ProfileStatus = form.ProfileStatus
	}
	if form.NextFollowUpDate != nil {
		pairing.NextFollowUpDate = form.NextFollowUpDate
	}
	if form.InterviewDate != nil {
		pairing.InterviewDate = form.InterviewDate
	}
	if form.ExpectedJoiningDate != nil {
		pairing.ExpectedJoiningDate = form.ExpectedJoiningDate
	}

	if _, err := s.store.Pairing().UpdateOwnership(ctx, pairing, expectedVersion); err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrConcurrentUpdate) {
			return nil, NewErrUpdateConflict(pairingID)
		}
		return nil, err
	}

	if err := s.store.Candidate().SetCurrentOwner(ctx, pairing.CandidateID, nil); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if previousOwner != nil {
		record := model.AssignmentRecord{
			PairingID:     pairing.ID,
			CandidateID:   pairing.CandidateID,
			PreviousOwner: previousOwner,
			AssignedBy:    caller,
			Reason:        model.ReasonManualRelease,
			CreatedAt:     now,
		}
		if _, err := s.store.AssignmentHistory().Append(ctx, record); err != nil {
			_, _ = store.Rollback(ctx)
			return nil, err
		}
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	if previousOwner != nil {
		s.emit(ctx, events.OwnershipMessageKind, events.OwnershipEvent{
			PairingID:     pairing.ID.String(),
			CandidateID:   pairing.CandidateID.String(),
			PreviousOwner: previousOwner,
			Reason:        string(model.ReasonManualRelease),
		})
	}

	return pairing, nil
}

// RunExpirySweep releases every owned pairing whose follow-up date has
// lapsed, unless its remark is a hold status. Failures are isolated per
// pairing so one bad record never aborts the sweep. Safe to run repeatedly
// and concurrently with assignments: release re-checks under the same
// version guard as Assign.
func (s *OwnershipService) RunExpirySweep(ctx context.Context) (int, error) {
	logger := zap.S().Named("expiry_sweep")

	today := model.DateOf(time.Now().UTC())
	expired, err := s.store.Pairing().List(ctx, store.NewPairingQueryFilter().ByExpiredNFD(today))
	if err != nil {
		return 0, err
	}

	released := 0
	for i := range expired {
		ok, err := s.release(ctx, expired[i].ID)
		if err != nil {
			if errors.As(err, new(*ErrUpdateConflict)) {
				// someone reassigned it mid-sweep; the next pass decides
				continue
			}
			logger.Errorw("failed to release pairing", "pairing_id", expired[i].ID, "error", err)
			continue
		}
		if ok {
			released++
		}
	}

	if released > 0 {
		metrics.AddExpiredReleases(released)
		logger.Infow("expiry sweep completed", "released", released, "candidates", len(expired))
	}
	return released, nil
}

// release frees one lapsed pairing; the bool reports whether it actually
// released, so skipped pairings are not counted by the sweep.
func (s *OwnershipService) release(ctx context.Context, pairingID uuid.UUID) (bool, error) {
	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return false, err
	}

	pairing, err := s.store.Pairing().Get(ctx, pairingID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		return false, err
	}

	now := time.Now().UTC()

	// re-check under the transaction: the pairing may have been worked or
	// put on hold since the sweep listed it
	if pairing.Owner == nil || !pairing.NFDExpired(now) || pairing.OnHold() {
		_, _ = store.Rollback(ctx)
		return false, nil
	}

	previousOwner := pairing.Owner
	expectedVersion := pairing.Version

	pairing.State = model.OwnershipExpiredOpen
	pairing.Owner = nil
	pairing.AssignedBy = nil
	pairing.TransferredAt = &now
	// remark stays untouched so "open profile (<date>)" can be displayed

	if _, err := s.store.Pairing().UpdateOwnership(ctx, pairing, expectedVersion); err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrConcurrentUpdate) {
			return false, NewErrUpdateConflict(pairingID)
		}
		return false, err
	}

	if err := s.store.Candidate().SetCurrentOwner(ctx, pairing.CandidateID, nil); err != nil {
		_, _ = store.Rollback(ctx)
		return false, err
	}

	record := model.AssignmentRecord{
		PairingID:     pairing.ID,
		CandidateID:   pairing.CandidateID,
		PreviousOwner: previousOwner,
		NewOwner:      nil,
		AssignedBy:    "system",
		Reason:        model.ReasonExpiredNFD,
		CreatedAt:     now,
	}
	if _, err := s.store.AssignmentHistory().Append(ctx, record); err != nil {
		_, _ = store.Rollback(ctx)
		return false, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return false, err
	}

	s.emit(ctx, events.OwnershipMessageKind, events.OwnershipEvent{
		PairingID:     pairing.ID.String(),
		CandidateID:   pairing.CandidateID.String(),
		PreviousOwner: previousOwner,
		Reason:        string(model.ReasonExpiredNFD),
	})

	return true, nil
}

func (s *OwnershipService) emit(ctx context.Context, kind string, payload any) {
	if s.producer == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		zap.S().Named("ownership").Errorw("failed to marshal event", "error", err)
		return
	}
	if err := s.producer.Write(ctx, kind, bytes.NewReader(data)); err != nil {
		zap.S().Named("ownership").Errorw("failed to emit event", "error", err)
	}
}

// EnsureEditable enforces the cross-cutting edit rule: mutations other than
// feedback text require the caller to be the current owner. Unowned and
// expired pairings are always editable.
func EnsureEditable(pairing *model.Pairing, caller string) error {
	if pairing.Owner == nil || pairing.State != model.OwnershipAssigned {
		return nil
	}
	if *pairing.Owner != caller {
		return NewErrPermissionDenied(pairing.ID, *pairing.Owner, caller)
	}
	return nil
}
