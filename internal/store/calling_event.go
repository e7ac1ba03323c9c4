package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CallingEvent interface {
	Get(ctx context.Context, id uuid.UUID) (*model.CallingEvent, error)
	List(ctx context.Context, filter *CallingEventQueryFilter) (model.CallingEventList, error)
	Create(ctx context.Context, event model.CallingEvent) (*model.CallingEvent, error)
	UpsertPlacement(ctx context.Context, placement model.Placement) error
	UpdatePlacement(ctx context.Context, placement model.Placement) error
	ListPlacements(ctx context.Context, eventID uuid.UUID) ([]model.Placement, error)
}

type CallingEventStore struct {
	db *gorm.DB
}

var _ CallingEvent = (*CallingEventStore)(nil)

func NewCallingEventStore(db *gorm.DB) CallingEvent {
	return &CallingEventStore{db: db}
}

func (s *CallingEventStore) Get(ctx context.Context, id uuid.UUID) (*model.CallingEvent, error) {
	event := model.CallingEvent{ID: id}
	if err := FromContext(ctx, s.db).Preload("Placements").First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *CallingEventStore) List(ctx context.Context, filter *CallingEventQueryFilter) (model.CallingEventList, error) {
	var events model.CallingEventList

	tx := FromContext(ctx, s.db)
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Model(&model.CallingEvent{}).Preload("Placements").Order("id").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *CallingEventStore) Create(ctx context.Context, event model.CallingEvent) (*model.CallingEvent, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := FromContext(ctx, s.db).Create(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &event, nil
}

// UpsertPlacement writes the single placement row for (event, candidate).
// The row is the whole truth about the candidate's buckets on that event, so
// a concurrent reclassification simply last-writes both booleans; the
// partitions cannot diverge.
func (s *CallingEventStore) UpsertPlacement(ctx context.Context, placement model.Placement) error {
	placement.UpdatedAt = time.Now().UTC()
	return FromContext(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reachable", "profile_submitted", "updated_at"}),
	}).Create(&placement).Error
}

// UpdatePlacement refreshes an existing placement only. Repair uses it so a
// maintenance pass can never place a candidate that was never classified.
func (s *CallingEventStore) UpdatePlacement(ctx context.Context, placement model.Placement) error {
	result := FromContext(ctx, s.db).
		Model(&model.Placement{}).
		Where("event_id = ? AND candidate_id = ?", placement.EventID, placement.CandidateID).
		Updates(map[string]any{
			"reachable":         placement.Reachable,
			"profile_submitted": placement.ProfileSubmitted,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *CallingEventStore) ListPlacements(ctx context.Context, eventID uuid.UUID) ([]model.Placement, error) {
	var placements []model.Placement
	if err := FromContext(ctx, s.db).
		Where("event_id = ?", eventID).
		Order("candidate_id").
		Find(&placements).Error; err != nil {
		return nil, err
	}
	return placements, nil
}
