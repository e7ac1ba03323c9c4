package store

import (
	"context"

	"github.com/placementdesk/backoffice/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Candidate() Candidate
	Pairing() Pairing
	CallingEvent() CallingEvent
	AssignmentHistory() AssignmentHistory
	StatusHistory() StatusHistory
	Feedback() Feedback
	Lookup() Lookup
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db                *gorm.DB
	candidate         Candidate
	pairing           Pairing
	callingEvent      CallingEvent
	assignmentHistory AssignmentHistory
	statusHistory     StatusHistory
	feedback          Feedback
	lookup            Lookup
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:                db,
		candidate:         NewCandidateStore(db),
		pairing:           NewPairingStore(db),
		callingEvent:      NewCallingEventStore(db),
		assignmentHistory: NewAssignmentHistoryStore(db),
		statusHistory:     NewStatusHistoryStore(db),
		feedback:          NewFeedbackStore(db),
		lookup:            NewLookupStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Candidate() Candidate {
	return s.candidate
}

func (s *DataStore) Pairing() Pairing {
	return s.pairing
}

func (s *DataStore) CallingEvent() CallingEvent {
	return s.callingEvent
}

func (s *DataStore) AssignmentHistory() AssignmentHistory {
	return s.assignmentHistory
}

func (s *DataStore) StatusHistory() StatusHistory {
	return s.statusHistory
}

func (s *DataStore) Feedback() Feedback {
	return s.feedback
}

func (s *DataStore) Lookup() Lookup {
	return s.lookup
}

// InitialMigration is the fallback schema path for dev and tests; production
// deployments run the goose migrations instead.
func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Candidate{},
		&model.Pairing{},
		&model.AssignmentRecord{},
		&model.StatusEntry{},
		&model.FeedbackEntry{},
		&model.CallingEvent{},
		&model.Placement{},
		&model.Client{},
		&model.GeoState{},
		&model.City{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
