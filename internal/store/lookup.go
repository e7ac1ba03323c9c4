package store

import (
	"context"
	"errors"

	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
)

// Lookup resolves free-text names against the reference tables. A miss is
// (nil, nil), never an error: callers treat nil as "cannot match".
type Lookup interface {
	ResolveClient(ctx context.Context, name string) (*int64, error)
	ResolveState(ctx context.Context, name string) (*int64, error)
	ResolveCity(ctx context.Context, name string) (*int64, error)
}

type LookupStore struct {
	db *gorm.DB
}

var _ Lookup = (*LookupStore)(nil)

func NewLookupStore(db *gorm.DB) Lookup {
	return &LookupStore{db: db}
}

func (s *LookupStore) ResolveClient(ctx context.Context, name string) (*int64, error) {
	return s.resolve(ctx, &model.Client{}, name)
}

func (s *LookupStore) ResolveState(ctx context.Context, name string) (*int64, error) {
	return s.resolve(ctx, &model.GeoState{}, name)
}

func (s *LookupStore) ResolveCity(ctx context.Context, name string) (*int64, error) {
	return s.resolve(ctx, &model.City{}, name)
}

func (s *LookupStore) resolve(ctx context.Context, table any, name string) (*int64, error) {
	var row struct{ ID int64 }
	err := FromContext(ctx, s.db).
		Model(table).
		Select("id").
		Where("LOWER(name) = LOWER(?)", name).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row.ID, nil
}
