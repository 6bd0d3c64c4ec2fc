package ports

import (
	"context"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// EventRepository persists the fleet audit trail.
type EventRepository interface {
	Insert(ctx context.Context, e *domain.FleetEvent) error
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.FleetEvent, error)
}

// EventService processes events handed over by the dispatcher.
type EventService interface {
	Process(ctx context.Context, e domain.FleetEvent) error
	ListRecent(ctx context.Context, limit int) ([]*domain.FleetEvent, error)
}

// EventSink is where request handlers drop events without waiting for
// persistence. The queue dispatcher implements it.
type EventSink interface {
	Enqueue(e domain.FleetEvent)
}
