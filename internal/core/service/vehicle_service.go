package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

// VehicleService implements the vehicle lifecycle and maintenance guards.
type VehicleService struct {
	repo   ports.VehicleRepository
	events ports.EventSink
	logger zerolog.Logger
}

func NewVehicleService(repo ports.VehicleRepository, events ports.EventSink, logger zerolog.Logger) *VehicleService {
	return &VehicleService{repo: repo, events: events, logger: logger}
}

func (s *VehicleService) ListForRole(ctx context.Context, role domain.Role) ([]*domain.Vehicle, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleFinance {
		return vehicles, nil
	}

	// Finance sees the fleet but not the maintenance history.
	redacted := make([]*domain.Vehicle, len(vehicles))
	for i, v := range vehicles {
		clone := *v
		clone.Maintenance = nil
		redacted[i] = &clone
	}
	return redacted, nil
}

func (s *VehicleService) ListInShop(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.repo.ListByStatus(ctx, domain.VehicleInShop)
}

func (s *VehicleService) KPIs(ctx context.Context) (*ports.VehicleKPIs, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	kpis := &ports.VehicleKPIs{TotalVehicles: len(vehicles)}
	var totalMileage int64
	for _, v := range vehicles {
		totalMileage += v.Mileage
		switch v.Status {
		case domain.VehicleInShop:
			kpis.InShop++
		case domain.VehicleActive:
			kpis.Active++
		}
	}
	if n := int64(len(vehicles)); n > 0 {
		// Rounded, not truncated.
		kpis.AverageMileage = (totalMileage + n/2) / n
	}
	return kpis, nil
}

func (s *VehicleService) Create(ctx context.Context, input ports.CreateVehicleInput, actor string) (*domain.Vehicle, error) {
	now := time.Now().UTC()
	vehicle := &domain.Vehicle{
		ID:            "veh-" + uuid.NewString(),
		Plate:         input.Plate,
		UnitNumber:    input.UnitNumber,
		Mileage:       input.Mileage,
		Status:        domain.VehicleActive,
		LastServiceAt: now,
		Maintenance:   []domain.MaintenanceLog{},
		CreatedAt:     now,
	}

	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		s.logger.Error().Err(err).Str("plate", input.Plate).Msg("failed to create vehicle")
		return nil, err
	}

	s.logger.Info().Str("vehicle_id", created.ID).Str("plate", created.Plate).Msg("vehicle created")
	s.record(domain.FleetEvent{
		EntityType: "vehicle",
		EntityID:   created.ID,
		Action:     domain.EventVehicleCreated,
		Actor:      actor,
		OccurredAt: now,
	})
	return created, nil
}

// OpenMaintenance always forces the vehicle into in_shop, even when another
// log is already open.
func (s *VehicleService) OpenMaintenance(ctx context.Context, vehicleID, note, actor string) (*domain.MaintenanceLog, error) {
	if _, err := s.repo.FindByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	log := domain.MaintenanceLog{
		ID:       "mnt-" + uuid.NewString(),
		Note:     note,
		OpenedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMaintenanceLog(ctx, vehicleID, log); err != nil {
		return nil, err
	}

	s.logger.Info().Str("vehicle_id", vehicleID).Str("log_id", log.ID).Msg("maintenance opened")
	s.record(domain.FleetEvent{
		EntityType: "vehicle",
		EntityID:   vehicleID,
		Action:     domain.EventMaintOpened,
		Actor:      actor,
		Note:       note,
		OccurredAt: log.OpenedAt,
	})
	return &log, nil
}

func (s *VehicleService) CompleteMaintenance(ctx context.Context, vehicleID, logID, actor string) (*domain.MaintenanceLog, error) {
	vehicle, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	log, err := vehicle.FindLog(logID)
	if err != nil {
		return nil, err
	}
	if !log.Open() {
		return nil, domain.ErrMaintDone
	}

	completedAt := time.Now().UTC()
	if err := s.repo.CompleteMaintenanceLog(ctx, vehicleID, logID, completedAt); err != nil {
		return nil, err
	}

	s.logger.Info().Str("vehicle_id", vehicleID).Str("log_id", logID).Msg("maintenance completed")
	s.record(domain.FleetEvent{
		EntityType: "vehicle",
		EntityID:   vehicleID,
		Action:     domain.EventMaintCompleted,
		Actor:      actor,
		OccurredAt: completedAt,
	})

	done := *log
	done.CompletedAt = &completedAt
	return &done, nil
}

func (s *VehicleService) record(e domain.FleetEvent) {
	if s.events != nil {
		s.events.Enqueue(e)
	}
}
