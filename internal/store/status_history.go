package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
)

type StatusHistory interface {
	Append(ctx context.Context, entry model.StatusEntry) (*model.StatusEntry, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) (model.StatusEntryList, error)
	List(ctx context.Context, filter *StatusQueryFilter) (model.StatusEntryList, error)
}

type StatusHistoryStore struct {
	db *gorm.DB
}

var _ StatusHistory = (*StatusHistoryStore)(nil)

func NewStatusHistoryStore(db *gorm.DB) StatusHistory {
	return &StatusHistoryStore{db: db}
}

// Append inserts a new timeline entry. Re-announcing the same remark for the
// same (candidate, pairing) is collapsed into the existing row so repeated
// "Profile Submitted" writes stay single entries; the same remark against a
// different pairing is a distinct event.
func (s *StatusHistoryStore) Append(ctx context.Context, entry model.StatusEntry) (*model.StatusEntry, error) {
	tx := FromContext(ctx, s.db)

	var existing model.StatusEntry
	q := tx.Where("candidate_id = ? AND remark = ?", entry.CandidateID, entry.Remark)
	if entry.PairingID != nil {
		q = q.Where("pairing_id = ?", *entry.PairingID)
	} else {
		q = q.Where("pairing_id IS NULL")
	}
	if err := q.First(&existing).Error; err == nil {
		return &existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *StatusHistoryStore) ListByCandidate(ctx context.Context, candidateID uuid.UUID) (model.StatusEntryList, error) {
	return s.List(ctx, NewStatusQueryFilter().ByCandidateID(candidateID))
}

func (s *StatusHistoryStore) List(ctx context.Context, filter *StatusQueryFilter) (model.StatusEntryList, error) {
	var entries model.StatusEntryList

	tx := FromContext(ctx, s.db)
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Model(&model.StatusEntry{}).
		Order("change_date, created_at").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
