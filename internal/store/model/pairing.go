package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnershipState string

const (
	OwnershipUnassigned  OwnershipState = "unassigned"
	OwnershipAssigned    OwnershipState = "assigned"
	OwnershipExpiredOpen OwnershipState = "expired_open"
)

// OpenProfileRemark is the legacy input sentinel for a claimable pairing.
// It is accepted on writes and mapped to OwnershipUnassigned; claimability
// itself is decided from the state column, never from the remark text.
const OpenProfileRemark = "open profile"

// holdRemarks are statuses that pin a pairing to its owner even after the
// follow-up date has lapsed. The expiry sweep skips them.
var holdRemarks = map[string]struct{}{
	"interview scheduled": {},
	"selected":            {},
	"offer released":      {},
	"joined":              {},
	"hold":                {},
}

type Pairing struct {
	gorm.Model
	ID          uuid.UUID `gorm:"primaryKey;"`
	CandidateID uuid.UUID `gorm:"index;not null"`

	// Free-text scoping fields of the client position; the classifier
	// resolves them against the reference tables on every match.
	ClientName string `gorm:"not null"`
	StateName  string
	CityName   string

	State         OwnershipState `gorm:"type:VARCHAR;size:20;default:unassigned;not null"`
	Owner         *string        `gorm:"index"`
	AssignedBy    *string
	AssignedFrom  *string
	TransferredAt *time.Time

	Remark        string
	ProfileStatus *string

	NextFollowUpDate    *time.Time
	InterviewDate       *time.Time
	ExpectedJoiningDate *time.Time

	ProfileSubmitted   bool
	ProfileSubmittedAt *time.Time

	// Version guards every ownership write with an optimistic
	// compare-and-swap; see store.Pairing.UpdateOwnership.
	Version int64 `gorm:"default:0;not null"`
}

type PairingList []Pairing

func NewPairingFromID(id uuid.UUID) *Pairing {
	return &Pairing{ID: id}
}

// EffectiveRemark is the display status of the pairing. ProfileStatus takes
// priority over Remark when set, non-empty and not the literal "null". An
// auto-released pairing renders as "open profile (<NFD>)" so executives see
// when it lapsed.
func (p *Pairing) EffectiveRemark() string {
	if p.ProfileStatus != nil {
		if s := strings.TrimSpace(*p.ProfileStatus); s != "" && !strings.EqualFold(s, "null") {
			return s
		}
	}
	if p.State == OwnershipExpiredOpen && p.NextFollowUpDate != nil {
		return fmt.Sprintf("%s (%s)", OpenProfileRemark, p.NextFollowUpDate.Format("2006-01-02"))
	}
	if p.Remark == "" {
		return OpenProfileRemark
	}
	return p.Remark
}

// NFDExpired reports whether the next follow-up date lies strictly before
// today. The boundary is "before today": a follow-up dated today is not yet
// expired.
func (p *Pairing) NFDExpired(today time.Time) bool {
	if p.NextFollowUpDate == nil {
		return false
	}
	return DateOf(*p.NextFollowUpDate).Before(DateOf(today))
}

// IsAssignableTo reports whether newOwner may take ownership: the pairing is
// open (unassigned or expired), its follow-up date has lapsed, or newOwner
// already owns it.
func (p *Pairing) IsAssignableTo(newOwner string, today time.Time) bool {
	switch p.State {
	case OwnershipUnassigned, OwnershipExpiredOpen:
		return true
	}
	if p.Owner != nil && *p.Owner == newOwner {
		return true
	}
	return p.NFDExpired(today)
}

// OnHold reports whether the current remark pins the pairing to its owner,
// blocking automatic release.
func (p *Pairing) OnHold() bool {
	_, ok := holdRemarks[strings.ToLower(strings.TrimSpace(p.Remark))]
	return ok
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
