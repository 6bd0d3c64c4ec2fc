package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/api/response"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

type TripHandler struct {
	tripService ports.TripService
}

func NewTripHandler(tripService ports.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

type createTripRequest struct {
	VehicleID   string    `json:"vehicleId"   validate:"required"`
	DriverID    string    `json:"driverId"    validate:"required"`
	Origin      string    `json:"origin"      validate:"required,min=2"`
	Destination string    `json:"destination" validate:"required,min=2"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

// List returns all trips, newest first.
//
// @Summary      List trips
// @Tags         trips
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/trips [get]
func (h *TripHandler) List(c echo.Context) error {
	trips, err := h.tripService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.List(c, http.StatusOK, trips)
}

// Create registers a planned trip.
//
// @Summary      Create trip
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        body  body      createTripRequest  true  "Trip"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.ErrorEnvelope
// @Router       /api/trips [post]
func (h *TripHandler) Create(c echo.Context) error {
	var req createTripRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	trip, err := h.tripService.Create(c.Request().Context(), ports.CreateTripInput{
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		Origin:      req.Origin,
		Destination: req.Destination,
		ScheduledAt: req.ScheduledAt,
	}, actor(c))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, trip)
}

// Dispatch moves a planned trip to dispatched.
//
// @Summary      Dispatch trip
// @Tags         trips
// @Produce      json
// @Param        id  path      string  true  "Trip id"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.ErrorEnvelope
// @Failure      409  {object}  response.ErrorEnvelope
// @Router       /api/trips/{id}/dispatch [post]
func (h *TripHandler) Dispatch(c echo.Context) error {
	trip, err := h.tripService.Dispatch(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	metrics.TripTransitionsTotal.WithLabelValues("dispatch").Inc()
	return response.JSON(c, http.StatusOK, trip)
}

// Complete moves a dispatched trip to completed.
//
// @Summary      Complete trip
// @Tags         trips
// @Produce      json
// @Param        id  path      string  true  "Trip id"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.ErrorEnvelope
// @Failure      409  {object}  response.ErrorEnvelope
// @Router       /api/trips/{id}/complete [post]
func (h *TripHandler) Complete(c echo.Context) error {
	trip, err := h.tripService.Complete(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	metrics.TripTransitionsTotal.WithLabelValues("complete").Inc()
	return response.JSON(c, http.StatusOK, trip)
}

// Cancel cancels a planned or dispatched trip.
//
// @Summary      Cancel trip
// @Tags         trips
// @Produce      json
// @Param        id  path      string  true  "Trip id"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.ErrorEnvelope
// @Failure      409  {object}  response.ErrorEnvelope
// @Router       /api/trips/{id}/cancel [post]
func (h *TripHandler) Cancel(c echo.Context) error {
	trip, err := h.tripService.Cancel(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	metrics.TripTransitionsTotal.WithLabelValues("cancel").Inc()
	return response.JSON(c, http.StatusOK, trip)
}
