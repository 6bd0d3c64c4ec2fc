package ports

import (
	"context"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// DriverService reads and updates drivers.
type DriverService interface {
	List(ctx context.Context) ([]*domain.Driver, error)
	// ExpiringLicenses returns drivers whose license expires within the
	// service's configured horizon.
	ExpiringLicenses(ctx context.Context) ([]*domain.Driver, error)
	Update(ctx context.Context, id string, update DriverUpdate, actor string) (*domain.Driver, error)
}
