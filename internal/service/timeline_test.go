package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/config"
	"github.com/placementdesk/backoffice/internal/service"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("timeline service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.TimelineService
	)

	newCandidate := func() uuid.UUID {
		id := uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, id, "jane doe", "EX01"))
		Expect(tx.Error).To(BeNil())
		return id
	}

	newPairing := func(candidateID uuid.UUID, remark string) *model.Pairing {
		pairing, err := s.Pairing().Create(context.TODO(), model.Pairing{
			CandidateID: candidateID,
			ClientName:  "acme",
			Remark:      remark,
		})
		Expect(err).To(BeNil())
		return pairing
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		srv = service.NewTimelineService(s)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from feedback_entries;")
		gormdb.Exec("DELETE from status_entries;")
		gormdb.Exec("DELETE from pairings;")
		gormdb.Exec("DELETE from candidates;")
	})

	Context("status", func() {
		It("appends and reads back the candidate timeline", func() {
			candidateID := newCandidate()

			_, err := srv.AppendStatus(context.TODO(), service.StatusForm{
				CandidateID: candidateID,
				Remark:      "interested",
				CreatedBy:   "EX01",
			})
			Expect(err).To(BeNil())

			entries, err := srv.GetTimeline(context.TODO(), candidateID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Remark).To(Equal("interested"))
		})

		It("rejects an empty remark", func() {
			candidateID := newCandidate()

			_, err := srv.AppendStatus(context.TODO(), service.StatusForm{CandidateID: candidateID})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidInput{}))
		})

		It("fails the timeline read for an unknown candidate", func() {
			_, err := srv.GetTimeline(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("feedback", func() {
		It("appends with the pairing's effective remark as snapshot", func() {
			candidateID := newCandidate()
			pairing := newPairing(candidateID, "call back tomorrow")

			entry, err := srv.AddFeedback(context.TODO(), pairing.ID, service.FeedbackForm{
				Text:      "spoke to candidate",
				EnteredBy: "EX01",
			})
			Expect(err).To(BeNil())
			Expect(entry.RemarkSnapshot).To(Equal("call back tomorrow"))
			Expect(entry.EnteredBy).To(Equal("EX01"))
		})

		It("amends text without touching the original entry time", func() {
			candidateID := newCandidate()
			pairing := newPairing(candidateID, "interested")

			entry, err := srv.AddFeedback(context.TODO(), pairing.ID, service.FeedbackForm{
				Text:      "first note",
				EnteredBy: "EX01",
			})
			Expect(err).To(BeNil())
			enteredAt := entry.EnteredAt

			amended, err := srv.AddFeedback(context.TODO(), pairing.ID, service.FeedbackForm{
				Text:      "corrected note",
				EnteredBy: "EX02",
				EntryID:   &entry.ID,
			})
			Expect(err).To(BeNil())
			Expect(amended.Text).To(Equal("corrected note"))
			Expect(amended.EnteredAt).To(BeTemporally("~", enteredAt, time.Second))
			Expect(amended.AmendedAt).NotTo(BeNil())

			entries, err := srv.ListFeedback(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
		})

		It("normalizes typographic punctuation on append", func() {
			candidateID := newCandidate()
			pairing := newPairing(candidateID, "interested")

			entry, err := srv.AddFeedback(context.TODO(), pairing.ID, service.FeedbackForm{
				Text:      "said ‘maybe’ — follow up…",
				EnteredBy: "EX01",
			})
			Expect(err).To(BeNil())
			Expect(entry.Text).To(Equal("said 'maybe' - follow up..."))
		})

		It("fails to amend a missing entry", func() {
			candidateID := newCandidate()
			pairing := newPairing(candidateID, "interested")

			missing := uuid.New()
			_, err := srv.AddFeedback(context.TODO(), pairing.ID, service.FeedbackForm{
				Text:    "whatever",
				EntryID: &missing,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
