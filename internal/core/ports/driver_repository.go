package ports

import (
	"context"
	"time"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// DriverUpdate carries the optional fields of a driver patch. Nil means
// "leave unchanged".
type DriverUpdate struct {
	Status           *domain.DriverStatus
	LicenseExpiresAt *time.Time
}

// DriverRepository defines persistence operations for drivers.
type DriverRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Driver, error)
	List(ctx context.Context) ([]*domain.Driver, error)
	// ListExpiringLicenses returns drivers whose license expires at or
	// before the deadline.
	ListExpiringLicenses(ctx context.Context, deadline time.Time) ([]*domain.Driver, error)
	Update(ctx context.Context, id string, update DriverUpdate) (*domain.Driver, error)
}
