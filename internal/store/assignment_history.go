package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
)

type AssignmentHistory interface {
	Append(ctx context.Context, record model.AssignmentRecord) (*model.AssignmentRecord, error)
	ListByPairing(ctx context.Context, pairingID uuid.UUID) (model.AssignmentRecordList, error)
}

type AssignmentHistoryStore struct {
	db *gorm.DB
}

var _ AssignmentHistory = (*AssignmentHistoryStore)(nil)

func NewAssignmentHistoryStore(db *gorm.DB) AssignmentHistory {
	return &AssignmentHistoryStore{db: db}
}

func (s *AssignmentHistoryStore) Append(ctx context.Context, record model.AssignmentRecord) (*model.AssignmentRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := FromContext(ctx, s.db).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *AssignmentHistoryStore) ListByPairing(ctx context.Context, pairingID uuid.UUID) (model.AssignmentRecordList, error) {
	var records model.AssignmentRecordList
	if err := FromContext(ctx, s.db).
		Where("pairing_id = ?", pairingID).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
