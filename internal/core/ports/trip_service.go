package ports

import (
	"context"
	"time"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// CreateTripInput is the validated payload for trip creation.
type CreateTripInput struct {
	VehicleID   string
	DriverID    string
	Origin      string
	Destination string
	ScheduledAt time.Time
}

// TripService owns the trip lifecycle. Every trip starts planned; the
// transition methods enforce the state machine and leave the record
// untouched on an illegal transition.
type TripService interface {
	List(ctx context.Context) ([]*domain.Trip, error)
	Create(ctx context.Context, input CreateTripInput, actor string) (*domain.Trip, error)
	Dispatch(ctx context.Context, id, actor string) (*domain.Trip, error)
	Complete(ctx context.Context, id, actor string) (*domain.Trip, error)
	// Cancel succeeds from every state except completed; re-cancelling a
	// cancelled trip is a no-op that returns the trip unchanged.
	Cancel(ctx context.Context, id, actor string) (*domain.Trip, error)
}
