package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/api/response"
	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

type DriverHandler struct {
	driverService ports.DriverService
}

func NewDriverHandler(driverService ports.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

type updateDriverRequest struct {
	Status           *string    `json:"status"           validate:"omitempty,oneof=active inactive"`
	LicenseExpiresAt *time.Time `json:"licenseExpiresAt"`
}

// List returns every driver.
//
// @Summary      List drivers
// @Tags         drivers
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/drivers [get]
func (h *DriverHandler) List(c echo.Context) error {
	drivers, err := h.driverService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.List(c, http.StatusOK, drivers)
}

// ExpiringLicenses returns drivers whose license expires soon.
//
// @Summary      Drivers with expiring licenses
// @Tags         drivers
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/drivers/expiring-licences [get]
func (h *DriverHandler) ExpiringLicenses(c echo.Context) error {
	drivers, err := h.driverService.ExpiringLicenses(c.Request().Context())
	if err != nil {
		return err
	}
	return response.List(c, http.StatusOK, drivers)
}

// Update patches a driver's status or license expiry.
//
// @Summary      Update driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Driver id"
// @Param        body  body      updateDriverRequest  true  "Fields to change"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.ErrorEnvelope
// @Failure      404   {object}  response.ErrorEnvelope
// @Router       /api/drivers/{id} [patch]
func (h *DriverHandler) Update(c echo.Context) error {
	var req updateDriverRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Status == nil && req.LicenseExpiresAt == nil {
		return apierr.Validation("Nothing to update")
	}

	update := ports.DriverUpdate{LicenseExpiresAt: req.LicenseExpiresAt}
	if req.Status != nil {
		status := domain.DriverStatus(*req.Status)
		update.Status = &status
	}

	driver, err := h.driverService.Update(c.Request().Context(), c.Param("id"), update, actor(c))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, driver)
}
