package ports

import (
	"context"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// CreateVehicleInput is the validated payload for vehicle creation.
type CreateVehicleInput struct {
	Plate      string
	UnitNumber string
	Mileage    int64
}

// VehicleKPIs is the aggregate snapshot for the KPI endpoint.
type VehicleKPIs struct {
	TotalVehicles  int   `json:"totalVehicles"`
	InShop         int   `json:"inShop"`
	Active         int   `json:"active"`
	AverageMileage int64 `json:"averageMileage"`
}

// VehicleService owns the vehicle lifecycle, including the maintenance
// state machine.
type VehicleService interface {
	// ListForRole returns all vehicles; for the finance role the
	// maintenance history is redacted from every record.
	ListForRole(ctx context.Context, role domain.Role) ([]*domain.Vehicle, error)
	ListInShop(ctx context.Context) ([]*domain.Vehicle, error)
	KPIs(ctx context.Context) (*VehicleKPIs, error)
	Create(ctx context.Context, input CreateVehicleInput, actor string) (*domain.Vehicle, error)
	// OpenMaintenance appends a new open log and forces the vehicle into
	// in_shop regardless of its current status.
	OpenMaintenance(ctx context.Context, vehicleID, note, actor string) (*domain.MaintenanceLog, error)
	// CompleteMaintenance closes the log, returns the vehicle to active and
	// stamps last service time. Completing twice fails with
	// domain.ErrMaintDone and changes nothing.
	CompleteMaintenance(ctx context.Context, vehicleID, logID, actor string) (*domain.MaintenanceLog, error)
}
