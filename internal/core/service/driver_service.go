package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

const defaultLicenseHorizon = 45 * 24 * time.Hour

// DriverService reads and updates drivers.
type DriverService struct {
	repo    ports.DriverRepository
	events  ports.EventSink
	horizon time.Duration
	logger  zerolog.Logger
}

// NewDriverService builds a DriverService. horizon bounds the
// expiring-licenses lookahead; zero selects the 45-day default.
func NewDriverService(repo ports.DriverRepository, events ports.EventSink, horizon time.Duration, logger zerolog.Logger) *DriverService {
	if horizon <= 0 {
		horizon = defaultLicenseHorizon
	}
	return &DriverService{repo: repo, events: events, horizon: horizon, logger: logger}
}

func (s *DriverService) List(ctx context.Context) ([]*domain.Driver, error) {
	return s.repo.List(ctx)
}

func (s *DriverService) ExpiringLicenses(ctx context.Context) ([]*domain.Driver, error) {
	deadline := time.Now().UTC().Add(s.horizon)
	return s.repo.ListExpiringLicenses(ctx, deadline)
}

func (s *DriverService) Update(ctx context.Context, id string, update ports.DriverUpdate, actor string) (*domain.Driver, error) {
	driver, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("driver_id", id).Msg("driver updated")
	if s.events != nil {
		s.events.Enqueue(domain.FleetEvent{
			EntityType: "driver",
			EntityID:   id,
			Action:     domain.EventDriverUpdated,
			Actor:      actor,
			OccurredAt: driver.UpdatedAt,
		})
	}
	return driver, nil
}
