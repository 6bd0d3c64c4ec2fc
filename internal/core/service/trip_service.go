package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

// TripService implements trip creation and the lifecycle state machine.
type TripService struct {
	repo   ports.TripRepository
	events ports.EventSink
	logger zerolog.Logger
}

func NewTripService(repo ports.TripRepository, events ports.EventSink, logger zerolog.Logger) *TripService {
	return &TripService{repo: repo, events: events, logger: logger}
}

func (s *TripService) List(ctx context.Context) ([]*domain.Trip, error) {
	return s.repo.List(ctx)
}

func (s *TripService) Create(ctx context.Context, input ports.CreateTripInput, actor string) (*domain.Trip, error) {
	now := time.Now().UTC()
	trip := &domain.Trip{
		ID:          "trp-" + uuid.NewString(),
		VehicleID:   input.VehicleID,
		DriverID:    input.DriverID,
		Origin:      input.Origin,
		Destination: input.Destination,
		ScheduledAt: input.ScheduledAt,
		Status:      domain.TripPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		s.logger.Error().Err(err).Str("vehicle_id", input.VehicleID).Msg("failed to create trip")
		return nil, err
	}

	s.logger.Info().Str("trip_id", created.ID).Msg("trip created")
	s.record(created.ID, domain.EventTripCreated, actor, now)
	return created, nil
}

func (s *TripService) Dispatch(ctx context.Context, id, actor string) (*domain.Trip, error) {
	return s.transition(ctx, id, domain.TripDispatched, domain.EventTripDispatched, actor)
}

func (s *TripService) Complete(ctx context.Context, id, actor string) (*domain.Trip, error) {
	return s.transition(ctx, id, domain.TripCompleted, domain.EventTripCompleted, actor)
}

// Cancel is idempotent: cancelling an already-cancelled trip succeeds and
// changes nothing. Only a completed trip rejects it.
func (s *TripService) Cancel(ctx context.Context, id, actor string) (*domain.Trip, error) {
	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.Status == domain.TripCancelled {
		return trip, nil
	}
	return s.transition(ctx, id, domain.TripCancelled, domain.EventTripCancelled, actor)
}

// transition reads the trip, validates the move against the state machine
// and applies it with a conditional write keyed on the observed status, so
// a racing transition cannot be applied twice.
func (s *TripService) transition(ctx context.Context, id string, to domain.TripStatus, action domain.EventAction, actor string) (*domain.Trip, error) {
	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !trip.Status.CanTransitionTo(to) {
		s.logger.Warn().
			Str("trip_id", id).
			Str("from", string(trip.Status)).
			Str("to", string(to)).
			Msg("illegal trip transition rejected")
		return nil, domain.ErrInvalidTripState
	}

	updated, err := s.repo.TransitionStatus(ctx, id, trip.Status, to)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("trip_id", id).Str("status", string(to)).Msg("trip transitioned")
	s.record(id, action, actor, updated.UpdatedAt)
	return updated, nil
}

func (s *TripService) record(tripID string, action domain.EventAction, actor string, at time.Time) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.FleetEvent{
		EntityType: "trip",
		EntityID:   tripID,
		Action:     action,
		Actor:      actor,
		OccurredAt: at,
	})
}
