package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallingEvent is one scheduled calling slot for one executive, scoped to a
// target client/state/city and one of five daily priority slots.
type CallingEvent struct {
	gorm.Model
	ID            uuid.UUID `gorm:"primaryKey;"`
	ExecutiveCode string    `gorm:"index;not null"`
	PlanDate      time.Time `gorm:"index;not null"`
	Slot          int       `gorm:"not null"` // 1..5

	TargetClientID *int64
	TargetStateID  *int64
	TargetCityID   *int64

	Placements []Placement `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE;"`
}

type CallingEventList []CallingEvent

// Placement records where one candidate sits on one calling event. The two
// booleans are the reachability and submission partitions; one row per
// (event, candidate) makes a candidate's presence in both sides of a
// partition unrepresentable.
type Placement struct {
	EventID     uuid.UUID `gorm:"primaryKey;column:event_id"`
	CandidateID uuid.UUID `gorm:"primaryKey;column:candidate_id"`

	Reachable        bool
	ProfileSubmitted bool
	UpdatedAt        time.Time
}

// BucketView is the four-list representation served to callers. Each list is
// sorted and duplicate-free.
type BucketView struct {
	OnPlan           []uuid.UUID `json:"onPlan"`
	OnOthers         []uuid.UUID `json:"onOthers"`
	OnProfiles       []uuid.UUID `json:"onProfiles"`
	OnProfilesOthers []uuid.UUID `json:"onProfilesOthers"`
}

// Buckets derives the four disjoint id-sets from the event's placements.
func (e *CallingEvent) Buckets() BucketView {
	v := BucketView{
		OnPlan:           []uuid.UUID{},
		OnOthers:         []uuid.UUID{},
		OnProfiles:       []uuid.UUID{},
		OnProfilesOthers: []uuid.UUID{},
	}
	for _, p := range e.Placements {
		if p.Reachable {
			v.OnPlan = append(v.OnPlan, p.CandidateID)
		} else {
			v.OnOthers = append(v.OnOthers, p.CandidateID)
		}
		if p.ProfileSubmitted {
			if p.Reachable {
				v.OnProfiles = append(v.OnProfiles, p.CandidateID)
			} else {
				v.OnProfilesOthers = append(v.OnProfilesOthers, p.CandidateID)
			}
		}
	}
	v.OnPlan = normalizeIDs(v.OnPlan)
	v.OnOthers = normalizeIDs(v.OnOthers)
	v.OnProfiles = normalizeIDs(v.OnProfiles)
	v.OnProfilesOthers = normalizeIDs(v.OnProfilesOthers)
	return v
}

func normalizeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
