package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/config"
	"github.com/placementdesk/backoffice/internal/events"
	"github.com/placementdesk/backoffice/internal/service"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const (
	insertCandidateStm = "INSERT INTO candidates (id, full_name, sourced_by) VALUES ('%s', '%s', '%s');"
)

var _ = Describe("ownership service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.OwnershipService
	)

	newCandidate := func(sourcedBy string) uuid.UUID {
		id := uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, id, "jane doe", sourcedBy))
		Expect(tx.Error).To(BeNil())
		return id
	}

	newPairing := func(p model.Pairing) *model.Pairing {
		created, err := s.Pairing().Create(context.TODO(), p)
		Expect(err).To(BeNil())
		return created
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	BeforeEach(func() {
		srv = service.NewOwnershipService(s, events.NewEventProducer(newTestWriter()))
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from feedback_entries;")
		gormdb.Exec("DELETE from status_entries;")
		gormdb.Exec("DELETE from assignment_records;")
		gormdb.Exec("DELETE from pairings;")
		gormdb.Exec("DELETE from candidates;")
	})

	Context("assign", func() {
		It("assigns an open pairing and audits the transition", func() {
			candidateID := newCandidate("EX01")
			pairing := newPairing(model.Pairing{CandidateID: candidateID, ClientName: "acme"})

			updated, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{NewOwner: "EX02"})
			Expect(err).To(BeNil())
			Expect(updated.State).To(Equal(model.OwnershipAssigned))
			Expect(*updated.Owner).To(Equal("EX02"))
			Expect(*updated.AssignedFrom).To(Equal("EX01"))

			records, err := s.AssignmentHistory().ListByPairing(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Reason).To(Equal(model.ReasonInitialAssignment))
			Expect(records[0].PreviousOwner).To(BeNil())
			Expect(*records[0].NewOwner).To(Equal("EX02"))

			candidate, err := s.Candidate().Get(context.TODO(), candidateID)
			Expect(err).To(BeNil())
			Expect(*candidate.CurrentOwner).To(Equal("EX02"))
		})

		It("records the previous owner on reassignment", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			yesterday := time.Now().UTC().AddDate(0, 0, -1)
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &yesterday,
			})

			updated, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{NewOwner: "EX03"})
			Expect(err).To(BeNil())
			Expect(*updated.Owner).To(Equal("EX03"))
			Expect(*updated.AssignedFrom).To(Equal("EX02"))

			records, err := s.AssignmentHistory().ListByPairing(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Reason).To(Equal(model.ReasonManualReassignment))
			Expect(*records[0].PreviousOwner).To(Equal("EX02"))
		})

		It("rejects a take-over while the follow-up date is current", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			tomorrow := time.Now().UTC().AddDate(0, 0, 1)
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &tomorrow,
			})

			_, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{NewOwner: "EX03"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNotAssignable{}))
		})

		It("treats a follow-up date of today as still current", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			today := model.DateOf(time.Now().UTC())
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &today,
			})

			_, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{NewOwner: "EX03"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNotAssignable{}))
		})

		It("lets the current owner re-assign to themselves regardless of dates", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			tomorrow := time.Now().UTC().AddDate(0, 0, 1)
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &tomorrow,
			})

			nfd := time.Now().UTC().AddDate(0, 0, 7)
			updated, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{
				NewOwner:         "EX02",
				NextFollowUpDate: &nfd,
			})
			Expect(err).To(BeNil())
			Expect(*updated.Owner).To(Equal("EX02"))
		})

		It("bypasses the gate with a manager override and audits it", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			tomorrow := time.Now().UTC().AddDate(0, 0, 1)
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &tomorrow,
			})

			updated, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{
				NewOwner:        "EX03",
				AssignedBy:      "MGR1",
				ManagerOverride: true,
			})
			Expect(err).To(BeNil())
			Expect(*updated.Owner).To(Equal("EX03"))

			records, err := s.AssignmentHistory().ListByPairing(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Reason).To(Equal(model.ReasonManagerOverride))
			Expect(records[0].AssignedBy).To(Equal("MGR1"))
		})

		It("clears the schedule unless the new owner re-supplies it", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			yesterday := time.Now().UTC().AddDate(0, 0, -1)
			interview := time.Now().UTC().AddDate(0, 0, 3)
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &yesterday,
				InterviewDate:    &interview,
			})

			updated, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{NewOwner: "EX03"})
			Expect(err).To(BeNil())
			Expect(updated.InterviewDate).To(BeNil())
			Expect(updated.ExpectedJoiningDate).To(BeNil())
		})

		It("writes a sanitized feedback entry when text is supplied", func() {
			candidateID := newCandidate("EX01")
			pairing := newPairing(model.Pairing{CandidateID: candidateID, ClientName: "acme"})

			_, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{
				NewOwner:     "EX02",
				FeedbackText: "candidate “very interested”",
			})
			Expect(err).To(BeNil())

			entries, err := s.Feedback().ListByPairing(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Text).To(Equal(`candidate "very interested"`))
			Expect(entries[0].EnteredBy).To(Equal("EX02"))
		})
	})

	Context("claim", func() {
		It("lets only the first of two racing claimants win", func() {
			candidateID := newCandidate("EX01")
			pairing := newPairing(model.Pairing{CandidateID: candidateID, ClientName: "acme"})

			// both claimants read the pairing at version 0; the second
			// write loses the compare-and-swap
			winner, err := srv.Claim(context.TODO(), pairing.ID, "EX02")
			Expect(err).To(BeNil())
			Expect(*winner.Owner).To(Equal("EX02"))

			stale := *pairing
			loser := "EX03"
			stale.State = model.OwnershipAssigned
			stale.Owner = &loser
			_, err = s.Pairing().UpdateOwnership(context.TODO(), &stale, 0)
			Expect(err).To(Equal(store.ErrConcurrentUpdate))

			records, err := s.AssignmentHistory().ListByPairing(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Reason).To(Equal(model.ReasonClaimedOpenJob))
		})

		It("rejects a claim on a pairing someone else already claimed", func() {
			candidateID := newCandidate("EX01")
			pairing := newPairing(model.Pairing{CandidateID: candidateID, ClientName: "acme"})

			_, err := srv.Claim(context.TODO(), pairing.ID, "EX02")
			Expect(err).To(BeNil())

			_, err = srv.Claim(context.TODO(), pairing.ID, "EX03")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNotAssignable{}))
		})

		It("claims an auto-released pairing", func() {
			candidateID := newCandidate("EX01")
			lastWeek := time.Now().UTC().AddDate(0, 0, -7)
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipExpiredOpen,
				NextFollowUpDate: &lastWeek,
			})

			updated, err := srv.Claim(context.TODO(), pairing.ID, "EX05")
			Expect(err).To(BeNil())
			Expect(updated.State).To(Equal(model.OwnershipAssigned))
			Expect(*updated.Owner).To(Equal("EX05"))
		})
	})

	Context("expiry sweep", func() {
		It("releases lapsed pairings and leaves current ones alone", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			yesterday := time.Now().UTC().AddDate(0, 0, -1)
			tomorrow := time.Now().UTC().AddDate(0, 0, 1)

			lapsed := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				Remark:           "call back",
				NextFollowUpDate: &yesterday,
			})
			current := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "globex",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &tomorrow,
			})

			released, err := srv.RunExpirySweep(context.TODO())
			Expect(err).To(BeNil())
			Expect(released).To(Equal(1))

			got, err := s.Pairing().Get(context.TODO(), lapsed.ID)
			Expect(err).To(BeNil())
			Expect(got.State).To(Equal(model.OwnershipExpiredOpen))
			Expect(got.Owner).To(BeNil())
			Expect(got.Remark).To(Equal("call back"))
			Expect(got.EffectiveRemark()).To(Equal(fmt.Sprintf("open profile (%s)", yesterday.Format("2006-01-02"))))

			untouched, err := s.Pairing().Get(context.TODO(), current.ID)
			Expect(err).To(BeNil())
			Expect(untouched.State).To(Equal(model.OwnershipAssigned))
		})

		It("skips pairings whose remark is a hold status", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			yesterday := time.Now().UTC().AddDate(0, 0, -1)

			held := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				Remark:           "Interview Scheduled",
				NextFollowUpDate: &yesterday,
			})

			released, err := srv.RunExpirySweep(context.TODO())
			Expect(err).To(BeNil())
			Expect(released).To(Equal(0))

			got, err := s.Pairing().Get(context.TODO(), held.ID)
			Expect(err).To(BeNil())
			Expect(got.State).To(Equal(model.OwnershipAssigned))
			Expect(*got.Owner).To(Equal("EX02"))
		})

		It("is idempotent across repeated runs", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			yesterday := time.Now().UTC().AddDate(0, 0, -1)

			newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &yesterday,
			})

			released, err := srv.RunExpirySweep(context.TODO())
			Expect(err).To(BeNil())
			Expect(released).To(Equal(1))

			released, err = srv.RunExpirySweep(context.TODO())
			Expect(err).To(BeNil())
			Expect(released).To(Equal(0))
		})
	})

	Context("guarded edits", func() {
		It("denies a non-owner mutation of an owned pairing", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			pairing := newPairing(model.Pairing{
				CandidateID: candidateID,
				ClientName:  "acme",
				State:       model.OwnershipAssigned,
				Owner:       &owner,
			})

			remark := "not interested"
			_, err := srv.UpdatePairing(context.TODO(), pairing.ID, "EX03", service.UpdateForm{Remark: &remark})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPermissionDenied{}))
		})

		It("lets the owner mutate and stamps the submission time once", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			pairing := newPairing(model.Pairing{
				CandidateID: candidateID,
				ClientName:  "acme",
				State:       model.OwnershipAssigned,
				Owner:       &owner,
			})

			submitted := true
			updated, err := srv.UpdatePairing(context.TODO(), pairing.ID, "EX02", service.UpdateForm{ProfileSubmitted: &submitted})
			Expect(err).To(BeNil())
			Expect(updated.ProfileSubmitted).To(BeTrue())
			Expect(updated.ProfileSubmittedAt).NotTo(BeNil())
			firstStamp := *updated.ProfileSubmittedAt

			updated, err = srv.UpdatePairing(context.TODO(), pairing.ID, "EX02", service.UpdateForm{ProfileSubmitted: &submitted})
			Expect(err).To(BeNil())
			Expect(*updated.ProfileSubmittedAt).To(BeTemporally("~", firstStamp, time.Second))
		})

		It("allows anyone to edit an unowned pairing", func() {
			candidateID := newCandidate("EX01")
			pairing := newPairing(model.Pairing{CandidateID: candidateID, ClientName: "acme"})

			remark := "interested"
			updated, err := srv.UpdatePairing(context.TODO(), pairing.ID, "EX09", service.UpdateForm{Remark: &remark})
			Expect(err).To(BeNil())
			Expect(updated.Remark).To(Equal("interested"))
		})

		It("maps the open profile remark to a release claimable by others", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			nfd := time.Now().UTC().AddDate(0, 0, 7)
			pairing := newPairing(model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &nfd,
			})

			remark := "Open Profile"
			updated, err := srv.UpdatePairing(context.TODO(), pairing.ID, "EX02", service.UpdateForm{Remark: &remark})
			Expect(err).To(BeNil())
			Expect(updated.State).To(Equal(model.OwnershipUnassigned))
			Expect(updated.Owner).To(BeNil())

			records, err := s.AssignmentHistory().ListByPairing(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Reason).To(Equal(model.ReasonManualRelease))
			Expect(*records[0].PreviousOwner).To(Equal("EX02"))
			Expect(records[0].AssignedBy).To(Equal("EX02"))

			reassigned, err := srv.Assign(context.TODO(), pairing.ID, service.AssignForm{NewOwner: "EX03"})
			Expect(err).To(BeNil())
			Expect(*reassigned.Owner).To(Equal("EX03"))
		})

		It("denies a non-owner releasing via the open profile remark", func() {
			candidateID := newCandidate("EX01")
			owner := "EX02"
			pairing := newPairing(model.Pairing{
				CandidateID: candidateID,
				ClientName:  "acme",
				State:       model.OwnershipAssigned,
				Owner:       &owner,
			})

			remark := "open profile"
			_, err := srv.UpdatePairing(context.TODO(), pairing.ID, "EX03", service.UpdateForm{Remark: &remark})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPermissionDenied{}))
		})
	})
})
