package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/config"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("status history store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from status_entries;")
	})

	Context("append", func() {
		It("collapses a repeated remark for the same pairing", func() {
			candidateID := uuid.New()
			pairingID := uuid.New()

			first, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				PairingID:   &pairingID,
				Remark:      "profile submitted",
				ChangeDate:  time.Now().UTC(),
			})
			Expect(err).To(BeNil())

			second, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				PairingID:   &pairingID,
				Remark:      "profile submitted",
				ChangeDate:  time.Now().UTC(),
			})
			Expect(err).To(BeNil())
			Expect(second.ID).To(Equal(first.ID))

			entries, err := s.StatusHistory().ListByCandidate(context.TODO(), candidateID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
		})

		It("keeps the same remark distinct across pairings", func() {
			candidateID := uuid.New()
			pairingA := uuid.New()
			pairingB := uuid.New()

			_, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				PairingID:   &pairingA,
				Remark:      "interested",
				ChangeDate:  time.Now().UTC(),
			})
			Expect(err).To(BeNil())

			_, err = s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				PairingID:   &pairingB,
				Remark:      "interested",
				ChangeDate:  time.Now().UTC(),
			})
			Expect(err).To(BeNil())

			entries, err := s.StatusHistory().ListByCandidate(context.TODO(), candidateID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(2))
		})

		It("deduplicates pairing-less entries against pairing-less rows only", func() {
			candidateID := uuid.New()
			pairingID := uuid.New()

			_, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				PairingID:   &pairingID,
				Remark:      "attended walk-in",
				ChangeDate:  time.Now().UTC(),
			})
			Expect(err).To(BeNil())

			_, err = s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				Remark:      "attended walk-in",
				ChangeDate:  time.Now().UTC(),
			})
			Expect(err).To(BeNil())

			entries, err := s.StatusHistory().ListByCandidate(context.TODO(), candidateID)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(2))
		})
	})

	Context("list", func() {
		It("orders by change date", func() {
			candidateID := uuid.New()
			older := time.Now().UTC().AddDate(0, 0, -3)
			newer := time.Now().UTC()

			_, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				Remark:      "selected",
				ChangeDate:  newer,
			})
			Expect(err).To(BeNil())
			_, err = s.StatusHistory().Append(context.TODO(), model.StatusEntry{
				CandidateID: candidateID,
				Remark:      "interested",
				ChangeDate:  older,
			})
			Expect(err).To(BeNil())

			entries, err := s.StatusHistory().List(context.TODO(), store.NewStatusQueryFilter().ByCandidateID(candidateID))
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Remark).To(Equal("interested"))
			Expect(entries[1].Remark).To(Equal("selected"))
		})

		It("bounds the range with from and to", func() {
			candidateID := uuid.New()
			for i, remark := range []string{"interested", "selected", "joined"} {
				_, err := s.StatusHistory().Append(context.TODO(), model.StatusEntry{
					CandidateID: candidateID,
					Remark:      remark,
					ChangeDate:  time.Date(2025, 3, 1+i*10, 0, 0, 0, 0, time.UTC),
				})
				Expect(err).To(BeNil())
			}

			entries, err := s.StatusHistory().List(context.TODO(), store.NewStatusQueryFilter().
				ByCandidateID(candidateID).
				From(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)).
				To(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Remark).To(Equal("selected"))
		})
	})
})
