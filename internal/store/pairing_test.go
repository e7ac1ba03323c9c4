package store_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/config"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const (
	insertCandidateStm = "INSERT INTO candidates (id, full_name, sourced_by) VALUES ('%s', '%s', '%s');"
)

var _ = Describe("pairing store", Ordered, func() {
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
		gormdb.Exec("DELETE from pairings;")
		gormdb.Exec("DELETE from candidates;")
	})

	Context("create and get", func() {
		It("successfully creates a pairing with defaults", func() {
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, candidateID, "jane doe", "EX01"))
			Expect(tx.Error).To(BeNil())

			pairing, err := s.Pairing().Create(context.TODO(), model.Pairing{
				CandidateID: candidateID,
				ClientName:  "acme",
			})
			Expect(err).To(BeNil())
			Expect(pairing.ID).NotTo(Equal(uuid.Nil))

			got, err := s.Pairing().Get(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(got.State).To(Equal(model.OwnershipUnassigned))
			Expect(got.Owner).To(BeNil())
			Expect(got.Version).To(Equal(int64(0)))
		})

		It("returns ErrRecordNotFound for a missing pairing", func() {
			_, err := s.Pairing().Get(context.TODO(), uuid.New())
			Expect(errors.Is(err, store.ErrRecordNotFound)).To(BeTrue())
		})
	})

	Context("update ownership", func() {
		It("bumps the version on a successful write", func() {
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, candidateID, "jane doe", "EX01"))
			Expect(tx.Error).To(BeNil())

			pairing, err := s.Pairing().Create(context.TODO(), model.Pairing{
				CandidateID: candidateID,
				ClientName:  "acme",
			})
			Expect(err).To(BeNil())

			owner := "EX02"
			pairing.State = model.OwnershipAssigned
			pairing.Owner = &owner

			updated, err := s.Pairing().UpdateOwnership(context.TODO(), pairing, 0)
			Expect(err).To(BeNil())
			Expect(updated.Version).To(Equal(int64(1)))

			got, err := s.Pairing().Get(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(got.Version).To(Equal(int64(1)))
			Expect(*got.Owner).To(Equal("EX02"))
			Expect(got.State).To(Equal(model.OwnershipAssigned))
		})

		It("rejects a stale version with ErrConcurrentUpdate", func() {
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, candidateID, "jane doe", "EX01"))
			Expect(tx.Error).To(BeNil())

			pairing, err := s.Pairing().Create(context.TODO(), model.Pairing{
				CandidateID: candidateID,
				ClientName:  "acme",
			})
			Expect(err).To(BeNil())

			first := *pairing
			second := *pairing

			ownerA := "EX02"
			first.State = model.OwnershipAssigned
			first.Owner = &ownerA
			_, err = s.Pairing().UpdateOwnership(context.TODO(), &first, 0)
			Expect(err).To(BeNil())

			ownerB := "EX03"
			second.State = model.OwnershipAssigned
			second.Owner = &ownerB
			_, err = s.Pairing().UpdateOwnership(context.TODO(), &second, 0)
			Expect(errors.Is(err, store.ErrConcurrentUpdate)).To(BeTrue())

			got, err := s.Pairing().Get(context.TODO(), pairing.ID)
			Expect(err).To(BeNil())
			Expect(*got.Owner).To(Equal("EX02"))
		})
	})

	Context("list", func() {
		It("filters expired follow-up dates, excluding today", func() {
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, candidateID, "jane doe", "EX01"))
			Expect(tx.Error).To(BeNil())

			owner := "EX02"
			yesterday := time.Now().UTC().AddDate(0, 0, -1)
			today := model.DateOf(time.Now().UTC())

			lapsed, err := s.Pairing().Create(context.TODO(), model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "acme",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &yesterday,
			})
			Expect(err).To(BeNil())

			_, err = s.Pairing().Create(context.TODO(), model.Pairing{
				CandidateID:      candidateID,
				ClientName:       "globex",
				State:            model.OwnershipAssigned,
				Owner:            &owner,
				NextFollowUpDate: &today,
			})
			Expect(err).To(BeNil())

			pairings, err := s.Pairing().List(context.TODO(), store.NewPairingQueryFilter().ByExpiredNFD(today))
			Expect(err).To(BeNil())
			Expect(pairings).To(HaveLen(1))
			Expect(pairings[0].ID).To(Equal(lapsed.ID))
		})

		It("filters by owner", func() {
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, candidateID, "jane doe", "EX01"))
			Expect(tx.Error).To(BeNil())

			ownerA := "EX02"
			ownerB := "EX03"
			_, err := s.Pairing().Create(context.TODO(), model.Pairing{
				CandidateID: candidateID, ClientName: "acme",
				State: model.OwnershipAssigned, Owner: &ownerA,
			})
			Expect(err).To(BeNil())
			_, err = s.Pairing().Create(context.TODO(), model.Pairing{
				CandidateID: candidateID, ClientName: "globex",
				State: model.OwnershipAssigned, Owner: &ownerB,
			})
			Expect(err).To(BeNil())

			pairings, err := s.Pairing().List(context.TODO(), store.NewPairingQueryFilter().ByOwner("EX02"))
			Expect(err).To(BeNil())
			Expect(pairings).To(HaveLen(1))
			Expect(*pairings[0].Owner).To(Equal("EX02"))
		})
	})

	Context("transaction", func() {
		It("rolls back an uncommitted create", func() {
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertCandidateStm, candidateID, "jane doe", "EX01"))
			Expect(tx.Error).To(BeNil())

			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Pairing().Create(ctx, model.Pairing{CandidateID: candidateID, ClientName: "acme"})
			Expect(err).To(BeNil())

			_, err = store.Rollback(ctx)
			Expect(err).To(BeNil())

			count := 0
			err = gormdb.Raw("SELECT COUNT(*) from pairings;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})
})
