package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
)

type Feedback interface {
	Append(ctx context.Context, entry model.FeedbackEntry) (*model.FeedbackEntry, error)
	Amend(ctx context.Context, id uuid.UUID, text, remarkSnapshot, callStatus string) (*model.FeedbackEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*model.FeedbackEntry, error)
	ListByPairing(ctx context.Context, pairingID uuid.UUID) (model.FeedbackEntryList, error)
}

type FeedbackStore struct {
	db *gorm.DB
}

var _ Feedback = (*FeedbackStore)(nil)

func NewFeedbackStore(db *gorm.DB) Feedback {
	return &FeedbackStore{db: db}
}

func (s *FeedbackStore) Append(ctx context.Context, entry model.FeedbackEntry) (*model.FeedbackEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.EnteredAt.IsZero() {
		entry.EnteredAt = time.Now().UTC()
	}
	if err := FromContext(ctx, s.db).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Amend rewrites text, remark snapshot and call status of an existing entry
// in place. EnteredAt and EnteredBy are preserved; AmendedAt marks the edit.
func (s *FeedbackStore) Amend(ctx context.Context, id uuid.UUID, text, remarkSnapshot, callStatus string) (*model.FeedbackEntry, error) {
	tx := FromContext(ctx, s.db)

	now := time.Now().UTC()
	result := tx.Model(&model.FeedbackEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"text":            text,
			"remark_snapshot": remarkSnapshot,
			"call_status":     callStatus,
			"amended_at":      now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return s.Get(ctx, id)
}

func (s *FeedbackStore) Get(ctx context.Context, id uuid.UUID) (*model.FeedbackEntry, error) {
	entry := model.FeedbackEntry{ID: id}
	if err := FromContext(ctx, s.db).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (s *FeedbackStore) ListByPairing(ctx context.Context, pairingID uuid.UUID) (model.FeedbackEntryList, error) {
	var entries model.FeedbackEntryList
	if err := FromContext(ctx, s.db).
		Where("pairing_id = ?", pairingID).
		Order("entered_at").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
