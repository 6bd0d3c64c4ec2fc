package ports

import (
	"context"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// TripRepository defines persistence operations for trips.
type TripRepository interface {
	Create(ctx context.Context, t *domain.Trip) (*domain.Trip, error)
	FindByID(ctx context.Context, id string) (*domain.Trip, error)
	List(ctx context.Context) ([]*domain.Trip, error)
	// TransitionStatus conditionally moves a trip from one status to
	// another. The write matches both id and the expected current status;
	// a concurrent transition that got there first surfaces as
	// domain.ErrInvalidTripState.
	TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) (*domain.Trip, error)
}
