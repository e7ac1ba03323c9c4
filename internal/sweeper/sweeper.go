// Package sweeper drives the periodic maintenance passes: releasing
// pairings whose follow-up date has lapsed and repairing stale calling-event
// placements. Both passes are idempotent, so a missed or doubled tick is
// harmless.
package sweeper

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"github.com/placementdesk/backoffice/internal/service"
	"go.uber.org/zap"
)

type Sweeper struct {
	ownership  *service.OwnershipService
	classifier *service.ClassifierService

	expiryInterval time.Duration
	repairInterval time.Duration
}

func New(ownership *service.OwnershipService, classifier *service.ClassifierService, expiryInterval, repairInterval time.Duration) *Sweeper {
	return &Sweeper{
		ownership:      ownership,
		classifier:     classifier,
		expiryInterval: expiryInterval,
		repairInterval: repairInterval,
	}
}

// Run blocks until ctx is cancelled. The tickers are jittered so replicas
// started together do not sweep in lockstep.
func (s *Sweeper) Run(ctx context.Context) {
	logger := zap.S().Named("sweeper")

	expiryTicker := jitterbug.New(s.expiryInterval, &jitterbug.Norm{Stdev: 30 * time.Second, Mean: 0})
	defer expiryTicker.Stop()

	repairTicker := jitterbug.New(s.repairInterval, &jitterbug.Norm{Stdev: 30 * time.Second, Mean: 0})
	defer repairTicker.Stop()

	logger.Infow("sweeper started", "expiry_interval", s.expiryInterval, "repair_interval", s.repairInterval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("sweeper stopped")
			return
		case <-expiryTicker.C:
			if _, err := s.ownership.RunExpirySweep(ctx); err != nil {
				logger.Errorw("expiry sweep failed", "error", err)
			}
		case <-repairTicker.C:
			if _, err := s.classifier.RunBucketRepair(ctx, nil); err != nil {
				logger.Errorw("bucket repair failed", "error", err)
			}
		}
	}
}
