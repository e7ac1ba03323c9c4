package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
)

// TimelineService owns the append-only status history and the per-pairing
// feedback log.
type TimelineService struct {
	store store.Store
}

func NewTimelineService(store store.Store) *TimelineService {
	return &TimelineService{store: store}
}

type StatusForm struct {
	CandidateID       uuid.UUID
	PairingID         *uuid.UUID
	VendorID          *int64
	ClientName        string
	Remark            string
	ProfileSubmission *bool
	Attended          bool
	ExtraNotes        string
	ChangeDate        time.Time
	CreatedBy         string
}

func (s *TimelineService) AppendStatus(ctx context.Context, form StatusForm) (*model.StatusEntry, error) {
	if form.Remark == "" {
		return nil, NewErrInvalidInput("remark is required")
	}
	if form.ChangeDate.IsZero() {
		form.ChangeDate = time.Now().UTC()
	}

	entry := model.StatusEntry{
		CandidateID:       form.CandidateID,
		PairingID:         form.PairingID,
		VendorID:          form.VendorID,
		ClientName:        form.ClientName,
		Remark:            form.Remark,
		ProfileSubmission: form.ProfileSubmission,
		Attended:          form.Attended,
		ExtraNotes:        form.ExtraNotes,
		ChangeDate:        form.ChangeDate,
		CreatedBy:         form.CreatedBy,
		CreatedAt:         time.Now().UTC(),
	}
	return s.store.StatusHistory().Append(ctx, entry)
}

type FeedbackForm struct {
	Text       string
	Remark     string
	CallStatus string
	EnteredBy  string

	// EntryID amends the existing entry in place instead of appending.
	EntryID *uuid.UUID
}

// AddFeedback appends a feedback entry to the pairing's log, or amends an
// existing one when EntryID is set. Amendment rewrites text, remark and call
// status only; the original EnteredAt is preserved. Feedback is the one
// field a non-owner may write, so there is no edit guard here.
func (s *TimelineService) AddFeedback(ctx context.Context, pairingID uuid.UUID, form FeedbackForm) (*model.FeedbackEntry, error) {
	if form.Text == "" {
		return nil, NewErrInvalidInput("feedback text is required")
	}

	pairing, err := s.store.Pairing().Get(ctx, pairingID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPairingNotFound(pairingID)
		}
		return nil, err
	}

	text := SanitizeText(form.Text)
	remark := form.Remark
	if remark == "" {
		remark = pairing.EffectiveRemark()
	}

	if form.EntryID != nil {
		entry, err := s.store.Feedback().Amend(ctx, *form.EntryID, text, remark, form.CallStatus)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrFeedbackEntryNotFound(*form.EntryID)
			}
			return nil, err
		}
		return entry, nil
	}

	entry := model.FeedbackEntry{
		PairingID:      pairing.ID,
		Text:           text,
		RemarkSnapshot: remark,
		CallStatus:     form.CallStatus,
		EnteredBy:      form.EnteredBy,
	}
	return s.store.Feedback().Append(ctx, entry)
}

// GetTimeline returns the candidate's status history ordered by change
// date. The sequence is finite and safe to re-read.
func (s *TimelineService) GetTimeline(ctx context.Context, candidateID uuid.UUID) (model.StatusEntryList, error) {
	if _, err := s.store.Candidate().Get(ctx, candidateID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCandidateNotFound(candidateID)
		}
		return nil, err
	}
	return s.store.StatusHistory().ListByCandidate(ctx, candidateID)
}

// ListFeedback returns the pairing's feedback log in append order.
func (s *TimelineService) ListFeedback(ctx context.Context, pairingID uuid.UUID) (model.FeedbackEntryList, error) {
	return s.store.Feedback().ListByPairing(ctx, pairingID)
}
