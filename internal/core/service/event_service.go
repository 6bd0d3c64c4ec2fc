package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

const defaultEventListLimit = 100

// EventService persists the fleet audit trail.
type EventService struct {
	repo   ports.EventRepository
	logger zerolog.Logger
}

func NewEventService(repo ports.EventRepository, logger zerolog.Logger) *EventService {
	return &EventService{repo: repo, logger: logger}
}

// Process stores a single event. Called by the queue dispatcher workers.
func (s *EventService) Process(ctx context.Context, e domain.FleetEvent) error {
	if e.ID == "" {
		e.ID = "evt-" + uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	return s.repo.Insert(ctx, &e)
}

func (s *EventService) ListRecent(ctx context.Context, limit int) ([]*domain.FleetEvent, error) {
	if limit <= 0 || limit > defaultEventListLimit {
		limit = defaultEventListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
