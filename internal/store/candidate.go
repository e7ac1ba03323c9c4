package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
)

type Candidate interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	Create(ctx context.Context, candidate model.Candidate) (*model.Candidate, error)
	SetCurrentOwner(ctx context.Context, id uuid.UUID, owner *string) error
	ListByOwner(ctx context.Context, owner string) (model.CandidateList, error)
}

type CandidateStore struct {
	db *gorm.DB
}

var _ Candidate = (*CandidateStore)(nil)

func NewCandidateStore(db *gorm.DB) Candidate {
	return &CandidateStore{db: db}
}

func (s *CandidateStore) Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	candidate := model.Candidate{ID: id}
	if err := FromContext(ctx, s.db).First(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (s *CandidateStore) Create(ctx context.Context, candidate model.Candidate) (*model.Candidate, error) {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	if err := FromContext(ctx, s.db).Create(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &candidate, nil
}

// SetCurrentOwner refreshes the denormalized owner mirror. Callers run it in
// the same transaction as the pairing write so listing by owner never
// observes a half-applied transition.
func (s *CandidateStore) SetCurrentOwner(ctx context.Context, id uuid.UUID, owner *string) error {
	result := FromContext(ctx, s.db).
		Model(&model.Candidate{}).
		Where("id = ?", id).
		Update("current_owner", owner)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *CandidateStore) ListByOwner(ctx context.Context, owner string) (model.CandidateList, error) {
	var candidates model.CandidateList
	if err := FromContext(ctx, s.db).
		Where("current_owner = ?", owner).
		Order("id").
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}
