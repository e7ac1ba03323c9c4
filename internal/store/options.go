package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type PairingQueryFilter BaseQuerier

func NewPairingQueryFilter() *PairingQueryFilter {
	return &PairingQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *PairingQueryFilter) ByOwner(owner string) *PairingQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner = ?", owner)
	})
	return qf
}

func (qf *PairingQueryFilter) ByCandidateID(id uuid.UUID) *PairingQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("candidate_id = ?", id)
	})
	return qf
}

// ByExpiredNFD selects owned pairings whose follow-up date lies strictly
// before the given day. The expiry sweep feeds on this.
func (qf *PairingQueryFilter) ByExpiredNFD(today time.Time) *PairingQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner IS NOT NULL AND next_follow_up_date IS NOT NULL AND next_follow_up_date < ?", today)
	})
	return qf
}

func (qf *PairingQueryFilter) WithAnyDateField() *PairingQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("interview_date IS NOT NULL OR next_follow_up_date IS NOT NULL OR expected_joining_date IS NOT NULL")
	})
	return qf
}

type CallingEventQueryFilter BaseQuerier

func NewCallingEventQueryFilter() *CallingEventQueryFilter {
	return &CallingEventQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *CallingEventQueryFilter) ByPlanDate(day time.Time) *CallingEventQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("plan_date = ?", day)
	})
	return qf
}

func (qf *CallingEventQueryFilter) ByExecutive(code string) *CallingEventQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("executive_code = ?", code)
	})
	return qf
}

type StatusQueryFilter BaseQuerier

func NewStatusQueryFilter() *StatusQueryFilter {
	return &StatusQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *StatusQueryFilter) ByCandidateID(id uuid.UUID) *StatusQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("candidate_id = ?", id)
	})
	return qf
}

func (qf *StatusQueryFilter) From(t time.Time) *StatusQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("change_date >= ?", t)
	})
	return qf
}

func (qf *StatusQueryFilter) To(t time.Time) *StatusQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("change_date <= ?", t)
	})
	return qf
}
