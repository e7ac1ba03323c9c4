package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
)

type Pairing interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Pairing, error)
	List(ctx context.Context, filter *PairingQueryFilter) (model.PairingList, error)
	Create(ctx context.Context, pairing model.Pairing) (*model.Pairing, error)
	UpdateOwnership(ctx context.Context, pairing *model.Pairing, expectedVersion int64) (*model.Pairing, error)
	UpdateFields(ctx context.Context, pairing *model.Pairing, fields ...string) (*model.Pairing, error)
}

type PairingStore struct {
	db *gorm.DB
}

var _ Pairing = (*PairingStore)(nil)

func NewPairingStore(db *gorm.DB) Pairing {
	return &PairingStore{db: db}
}

func (s *PairingStore) Get(ctx context.Context, id uuid.UUID) (*model.Pairing, error) {
	pairing := model.NewPairingFromID(id)
	if err := FromContext(ctx, s.db).First(pairing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return pairing, nil
}

func (s *PairingStore) List(ctx context.Context, filter *PairingQueryFilter) (model.PairingList, error) {
	var pairings model.PairingList

	tx := FromContext(ctx, s.db)
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Model(&model.Pairing{}).Order("id").Find(&pairings).Error; err != nil {
		return nil, err
	}
	return pairings, nil
}

func (s *PairingStore) Create(ctx context.Context, pairing model.Pairing) (*model.Pairing, error) {
	if pairing.ID == uuid.Nil {
		pairing.ID = uuid.New()
	}
	result := FromContext(ctx, s.db).Create(&pairing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &pairing, nil
}

// UpdateOwnership writes the ownership, status and scheduling columns of the
// pairing guarded by an optimistic compare-and-swap on the version column.
// Concurrent writers race on the same expected version; exactly one wins,
// the others get ErrConcurrentUpdate and must re-read.
func (s *PairingStore) UpdateOwnership(ctx context.Context, pairing *model.Pairing, expectedVersion int64) (*model.Pairing, error) {
	pairing.Version = expectedVersion + 1

	result := FromContext(ctx, s.db).
		Model(&model.Pairing{}).
		Where("id = ? AND version = ?", pairing.ID, expectedVersion).
		Select("state", "owner", "assigned_by", "assigned_from", "transferred_at",
			"remark", "profile_status", "next_follow_up_date", "interview_date",
			"expected_joining_date", "version").
		Updates(pairing)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConcurrentUpdate
	}
	return pairing, nil
}

// UpdateFields updates only the named columns; used by the guarded edit
// paths that do not touch ownership.
func (s *PairingStore) UpdateFields(ctx context.Context, pairing *model.Pairing, fields ...string) (*model.Pairing, error) {
	result := FromContext(ctx, s.db).
		Model(&model.Pairing{}).
		Where("id = ?", pairing.ID).
		Select(fields).
		Updates(pairing)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return pairing, nil
}
