package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/api/response"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

type VehicleHandler struct {
	vehicleService ports.VehicleService
}

func NewVehicleHandler(vehicleService ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

type createVehicleRequest struct {
	Plate      string `json:"plate"      validate:"required,min=3"`
	UnitNumber string `json:"unitNumber" validate:"required,min=2"`
	Mileage    int64  `json:"mileage"    validate:"gte=0"`
}

type maintenanceRequest struct {
	Note string `json:"note" validate:"required,min=3"`
}

// List returns every vehicle. Finance callers receive vehicles with the
// maintenance history stripped.
//
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.ErrorEnvelope
// @Failure      403  {object}  response.ErrorEnvelope
// @Router       /api/vehicles [get]
func (h *VehicleHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	vehicles, err := h.vehicleService.ListForRole(c.Request().Context(), identity.Role)
	if err != nil {
		return err
	}
	return response.List(c, http.StatusOK, vehicles)
}

// ListInShop returns the vehicles currently under maintenance.
//
// @Summary      List vehicles in shop
// @Tags         vehicles
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/vehicles/in-shop [get]
func (h *VehicleHandler) ListInShop(c echo.Context) error {
	vehicles, err := h.vehicleService.ListInShop(c.Request().Context())
	if err != nil {
		return err
	}
	return response.List(c, http.StatusOK, vehicles)
}

// KPIs returns fleet-wide aggregates.
//
// @Summary      Vehicle KPIs
// @Tags         vehicles
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/vehicles/kpis [get]
func (h *VehicleHandler) KPIs(c echo.Context) error {
	kpis, err := h.vehicleService.KPIs(c.Request().Context())
	if err != nil {
		return err
	}
	return response.WithMeta(c, http.StatusOK, kpis, map[string]any{
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

// Create registers a new vehicle in active status.
//
// @Summary      Create vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        body  body      createVehicleRequest  true  "Vehicle"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.ErrorEnvelope
// @Router       /api/vehicles [post]
func (h *VehicleHandler) Create(c echo.Context) error {
	var req createVehicleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Create(c.Request().Context(), ports.CreateVehicleInput{
		Plate:      req.Plate,
		UnitNumber: req.UnitNumber,
		Mileage:    req.Mileage,
	}, actor(c))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, vehicle)
}

// OpenMaintenance opens a maintenance log and sends the vehicle to the shop.
//
// @Summary      Open maintenance
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Vehicle id"
// @Param        body  body      maintenanceRequest  true  "Maintenance note"
// @Success      201   {object}  response.Envelope
// @Failure      404   {object}  response.ErrorEnvelope
// @Router       /api/vehicles/{id}/maintenance [post]
func (h *VehicleHandler) OpenMaintenance(c echo.Context) error {
	var req maintenanceRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	log, err := h.vehicleService.OpenMaintenance(c.Request().Context(), c.Param("id"), req.Note, actor(c))
	if err != nil {
		return err
	}
	metrics.MaintenanceTotal.WithLabelValues("opened").Inc()
	return response.JSON(c, http.StatusCreated, log)
}

// CompleteMaintenance closes an open maintenance log and returns the
// vehicle to active.
//
// @Summary      Complete maintenance
// @Tags         vehicles
// @Produce      json
// @Param        id     path      string  true  "Vehicle id"
// @Param        logId  path      string  true  "Maintenance log id"
// @Success      200    {object}  response.Envelope
// @Failure      404    {object}  response.ErrorEnvelope
// @Failure      409    {object}  response.ErrorEnvelope
// @Router       /api/vehicles/{id}/maintenance/{logId}/complete [patch]
func (h *VehicleHandler) CompleteMaintenance(c echo.Context) error {
	log, err := h.vehicleService.CompleteMaintenance(c.Request().Context(), c.Param("id"), c.Param("logId"), actor(c))
	if err != nil {
		return err
	}
	metrics.MaintenanceTotal.WithLabelValues("completed").Inc()
	return response.JSON(c, http.StatusOK, log)
}
