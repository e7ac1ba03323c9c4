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

var _ = Describe("calendar service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.CalendarService
	)

	newCandidate := func() uuid.UUID {
		id := uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, id, "jane doe", "EX01"))
		Expect(tx.Error).To(BeNil())
		return id
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		srv = service.NewCalendarService(s)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from status_entries;")
		gormdb.Exec("DELETE from pairings;")
		gormdb.Exec("DELETE from candidates;")
	})

	It("consolidates same-day date fields of one pairing into one event", func() {
		candidateID := newCandidate()
		day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

		_, err := s.Pairing().Create(context.TODO(), model.Pairing{
			CandidateID:      candidateID,
			ClientName:       "acme",
			InterviewDate:    &day,
			NextFollowUpDate: &day,
		})
		Expect(err).To(BeNil())

		calendar, err := srv.GetCalendar(context.TODO(), &day, &day)
		Expect(err).To(BeNil())
		Expect(calendar.Days).To(HaveLen(1))
		Expect(calendar.Days[0].Date).To(Equal("2025-03-05"))
		Expect(calendar.Days[0].Events).To(HaveLen(1))

		event := calendar.Days[0].Events[0]
		Expect(event.Type).To(Equal("IF+NFD"))
		Expect(event.MultipleEvents).To(BeTrue())
		Expect(event.CandidateID).To(Equal(candidateID))

		Expect(calendar.Days[0].Counts).To(HaveKeyWithValue("IF", 1))
		Expect(calendar.Days[0].Counts).To(HaveKeyWithValue("NFD", 1))
		Expect(calendar.Totals).To(HaveKeyWithValue("IF", 1))
		Expect(calendar.Totals).To(HaveKeyWithValue("NFD", 1))
	})

	It("keeps different pairings of the same candidate separate", func() {
		candidateID := newCandidate()
		day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

		_, err := s.Pairing().Create(context.TODO(), model.Pairing{
			CandidateID:   candidateID,
			ClientName:    "acme",
			InterviewDate: &day,
		})
		Expect(err).To(BeNil())
		_, err = s.Pairing().Create(context.TODO(), model.Pairing{
			CandidateID:      candidateID,
			ClientName:       "globex",
			NextFollowUpDate: &day,
		})
		Expect(err).To(BeNil())

		calendar, err := srv.GetCalendar(context.TODO(), &day, &day)
		Expect(err).To(BeNil())
		Expect(calendar.Days).To(HaveLen(1))
		Expect(calendar.Days[0].Events).To(HaveLen(2))
	})

	It("maps status remarks to their type codes", func() {
		candidateID := newCandidate()
		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

		_, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
			CandidateID: candidateID,
			Remark:      "Selected",
			ChangeDate:  day,
		})
		Expect(err).To(BeNil())
		_, err = s.StatusHistory().Append(context.TODO(), model.StatusEntry{
			CandidateID: candidateID,
			Remark:      "some odd remark",
			ChangeDate:  day,
		})
		Expect(err).To(BeNil())

		calendar, err := srv.GetCalendar(context.TODO(), &day, &day)
		Expect(err).To(BeNil())
		Expect(calendar.Totals).To(HaveKeyWithValue("SEL", 1))
		Expect(calendar.Totals).To(HaveKeyWithValue("SH", 1))
	})

	It("counts attendance once per date", func() {
		day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

		for i := 0; i < 2; i++ {
			candidateID := newCandidate()
			_, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				Remark:      fmt.Sprintf("walked in %d", i),
				Attended:    true,
				ChangeDate:  day,
			})
			Expect(err).To(BeNil())
		}

		calendar, err := srv.GetCalendar(context.TODO(), &day, &day)
		Expect(err).To(BeNil())
		Expect(calendar.Totals).To(HaveKeyWithValue("ATND", 1))
		Expect(calendar.Days[0].Events).To(HaveLen(2))
	})

	It("excludes dates outside the requested range", func() {
		candidateID := newCandidate()
		inside := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
		outside := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

		_, err := s.Pairing().Create(context.TODO(), model.Pairing{
			CandidateID:         candidateID,
			ClientName:          "acme",
			InterviewDate:       &inside,
			ExpectedJoiningDate: &outside,
		})
		Expect(err).To(BeNil())

		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
		calendar, err := srv.GetCalendar(context.TODO(), &from, &to)
		Expect(err).To(BeNil())
		Expect(calendar.Days).To(HaveLen(1))
		Expect(calendar.Totals).To(HaveKeyWithValue("IF", 1))
		Expect(calendar.Totals).NotTo(HaveKey("EDJ"))
	})
})
