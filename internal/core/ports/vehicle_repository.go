package ports

import (
	"context"
	"time"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// VehicleRepository defines persistence operations for vehicles and their
// maintenance logs. The conditional operations implement the state-machine
// guards: they match on the expected current state and report a domain error
// when the record has moved on, so concurrent writers cannot double-apply a
// transition.
type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	FindByID(ctx context.Context, id string) (*domain.Vehicle, error)
	List(ctx context.Context) ([]*domain.Vehicle, error)
	ListByStatus(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error)
	// AddMaintenanceLog appends log and forces the vehicle into in_shop in
	// one write.
	AddMaintenanceLog(ctx context.Context, vehicleID string, log domain.MaintenanceLog) error
	// CompleteMaintenanceLog stamps the log's completion time, moves the
	// vehicle back to active and updates last_service_at, matching only
	// while the log is still open. Returns domain.ErrMaintDone when the log
	// was already completed.
	CompleteMaintenanceLog(ctx context.Context, vehicleID, logID string, completedAt time.Time) error
}
