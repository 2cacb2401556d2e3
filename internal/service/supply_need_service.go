package service

import (
	"context"
	"time"

	"github.com/spec-kit/ngo-case-service/internal/domain"
	"github.com/spec-kit/ngo-case-service/internal/events"
	"github.com/spec-kit/ngo-case-service/internal/repository"
)

// SupplyNeedService applies status transitions to regular supplies needs.
// Authorization happens at the route; the service does not re-check it.
type SupplyNeedService struct {
	needs      repository.SupplyNeedRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// SupplyNeedDependencies bundles collaborators for the service.
type SupplyNeedDependencies struct {
	NeedRepo   repository.SupplyNeedRepository
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// NewSupplyNeedService constructs the service.
func NewSupplyNeedService(deps SupplyNeedDependencies) *SupplyNeedService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SupplyNeedService{
		needs:      deps.NeedRepo,
		dispatcher: deps.Dispatcher,
		now:        clock,
	}
}

// Get loads a need.
func (s *SupplyNeedService) Get(ctx context.Context, id int64) (*domain.SupplyNeed, error) {
	return s.needs.GetByID(ctx, id)
}

// Approve marks a need approved.
func (s *SupplyNeedService) Approve(ctx context.Context, actorID, id int64) (*domain.SupplyNeed, error) {
	return s.transition(ctx, actorID, id, domain.NeedStatusApproved, events.EventNeedApproved)
}

// Reject marks a need rejected.
func (s *SupplyNeedService) Reject(ctx context.Context, actorID, id int64) (*domain.SupplyNeed, error) {
	return s.transition(ctx, actorID, id, domain.NeedStatusRejected, events.EventNeedRejected)
}

// Collect marks a need collected now and records the distribution batch.
func (s *SupplyNeedService) Collect(ctx context.Context, actorID, id int64, batchID *int64) (*domain.SupplyNeed, error) {
	need, err := s.needs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pickup := s.now()
	if err := s.needs.MarkCollected(ctx, id, batchID, pickup); err != nil {
		return nil, err
	}

	old := need.Status
	need.Status = domain.NeedStatusCollected
	need.BatchID = batchID
	need.PickupDate = &pickup
	s.publish(ctx, events.EventNeedCollected, actorID, need, old)
	return need, nil
}

// Delete removes a need.
func (s *SupplyNeedService) Delete(ctx context.Context, actorID, id int64) error {
	need, err := s.needs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.needs.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventNeedDeleted, actorID, need, need.Status)
	return nil
}

func (s *SupplyNeedService) transition(ctx context.Context, actorID, id int64, status domain.NeedStatus, eventType events.EventType) (*domain.SupplyNeed, error) {
	need, err := s.needs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.needs.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	old := need.Status
	need.Status = status
	s.publish(ctx, eventType, actorID, need, old)
	return need, nil
}

func (s *SupplyNeedService) publish(ctx context.Context, eventType events.EventType, actorID int64, need *domain.SupplyNeed, old domain.NeedStatus) {
	if s.dispatcher == nil {
		return
	}
	caseID := need.CaseID
	payload := events.NeedStatusPayload{
		NeedID:    need.ID,
		OldStatus: old,
		BatchID:   need.BatchID,
	}
	if eventType != events.EventNeedDeleted {
		payload.NewStatus = need.Status
	}
	s.dispatcher.Publish(ctx, events.New(eventType, actorID, &caseID, payload))
}
