package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/store/model"
	"github.com/placementdesk/backoffice/pkg/metrics"
	"go.uber.org/zap"
)

// ClassifierService routes candidate-job pairings into a calling event's
// reachability and submission partitions based on the three-field
// client/state/city match.
type ClassifierService struct {
	store    store.Store
	resolver *LookupResolver
}

func NewClassifierService(store store.Store, resolver *LookupResolver) *ClassifierService {
	return &ClassifierService{store: store, resolver: resolver}
}

// GetEvent returns the calling event with its placements loaded.
func (s *ClassifierService) GetEvent(ctx context.Context, eventID uuid.UUID) (*model.CallingEvent, error) {
	event, err := s.store.CallingEvent().Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCallingEventNotFound(eventID)
		}
		return nil, err
	}
	return event, nil
}

// Classify places the pairing's candidate on the event. The placement row is
// the single source of truth for both partitions, so re-running is
// idempotent and the onPlan/onOthers invariant holds by construction.
func (s *ClassifierService) Classify(ctx context.Context, eventID, pairingID uuid.UUID) (*model.Placement, error) {
	event, err := s.store.CallingEvent().Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCallingEventNotFound(eventID)
		}
		return nil, err
	}

	pairing, err := s.store.Pairing().Get(ctx, pairingID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPairingNotFound(pairingID)
		}
		return nil, err
	}

	cache := NewResolverCache()
	match, err := s.matches(ctx, cache, event, pairing)
	if err != nil {
		return nil, err
	}

	placement := model.Placement{
		EventID:          event.ID,
		CandidateID:      pairing.CandidateID,
		Reachable:        match,
		ProfileSubmitted: pairing.ProfileSubmitted,
	}
	if err := s.store.CallingEvent().UpsertPlacement(ctx, placement); err != nil {
		return nil, err
	}
	return &placement, nil
}

// matches computes the three-field match between the event's target and the
// pairing's current client/state/city. An unresolved name degrades to a
// non-match; it is logged, never surfaced.
func (s *ClassifierService) matches(ctx context.Context, cache ResolverCache, event *model.CallingEvent, pairing *model.Pairing) (bool, error) {
	logger := zap.S().Named("classifier")

	clientID, err := s.resolver.ResolveClient(ctx, cache, pairing.ClientName)
	if err != nil {
		return false, err
	}
	stateID, err := s.resolver.ResolveState(ctx, cache, pairing.StateName)
	if err != nil {
		return false, err
	}
	cityID, err := s.resolver.ResolveCity(ctx, cache, pairing.CityName)
	if err != nil {
		return false, err
	}

	if clientID == nil || stateID == nil || cityID == nil {
		logger.Debugw("unresolved lookup, treating as non-match",
			"pairing_id", pairing.ID,
			"client", pairing.ClientName,
			"state", pairing.StateName,
			"city", pairing.CityName)
		return false, nil
	}

	return idEqual(event.TargetClientID, clientID) &&
		idEqual(event.TargetStateID, stateID) &&
		idEqual(event.TargetCityID, cityID), nil
}

func idEqual(target, resolved *int64) bool {
	if target == nil || resolved == nil {
		return false
	}
	return *target == *resolved
}

// RepairEvent re-runs the match for every placement of the event against
// each candidate's current pairings and flips placements left stale by
// upstream edits. It only updates rows that already exist; a candidate
// absent from the event is never added by repair.
func (s *ClassifierService) RepairEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	event, err := s.store.CallingEvent().Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return 0, NewErrCallingEventNotFound(eventID)
		}
		return 0, err
	}

	logger := zap.S().Named("bucket_repair")
	cache := NewResolverCache()

	repaired := 0
	for _, placement := range event.Placements {
		pairings, err := s.store.Pairing().List(ctx, store.NewPairingQueryFilter().ByCandidateID(placement.CandidateID))
		if err != nil {
			logger.Errorw("failed to load pairings", "candidate_id", placement.CandidateID, "error", err)
			continue
		}

		reachable := false
		submitted := false
		for i := range pairings {
			match, err := s.matches(ctx, cache, event, &pairings[i])
			if err != nil {
				logger.Errorw("match failed", "pairing_id", pairings[i].ID, "error", err)
				continue
			}
			if match {
				reachable = true
			}
			if pairings[i].ProfileSubmitted {
				submitted = true
			}
		}

		if placement.Reachable == reachable && placement.ProfileSubmitted == submitted {
			continue
		}

		placement.Reachable = reachable
		placement.ProfileSubmitted = submitted
		if err := s.store.CallingEvent().UpdatePlacement(ctx, placement); err != nil {
			logger.Errorw("failed to update placement", "event_id", event.ID, "candidate_id", placement.CandidateID, "error", err)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		metrics.AddRepairedPlacements(repaired)
		logger.Infow("event repaired", "event_id", event.ID, "repaired", repaired)
	}
	return repaired, nil
}

// RunBucketRepair repairs one event, or every event planned for today when
// eventID is nil. Per-event failures are logged and skipped.
func (s *ClassifierService) RunBucketRepair(ctx context.Context, eventID *uuid.UUID) (int, error) {
	if eventID != nil {
		return s.RepairEvent(ctx, *eventID)
	}

	today := model.DateOf(time.Now().UTC())
	events, err := s.store.CallingEvent().List(ctx, store.NewCallingEventQueryFilter().ByPlanDate(today))
	if err != nil {
		return 0, err
	}

	logger := zap.S().Named("bucket_repair")
	total := 0
	for _, event := range events {
		n, err := s.RepairEvent(ctx, event.ID)
		if err != nil {
			logger.Errorw("failed to repair event", "event_id", event.ID, "error", err)
			continue
		}
		total += n
	}
	return total, nil
}
