package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/api/middleware"
	"github.com/fleetflow/fleet-api/internal/api/response"
	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// NewHTTPErrorHandler returns the echo.HTTPErrorHandler that normalizes
// every failure raised anywhere in the pipeline into the single error
// envelope. It is registered once on the Echo instance, so errors are
// caught exactly once:
//   - apierr.Error renders its own status and code.
//   - Known domain errors map to deterministic codes and statuses.
//   - Echo's router 404 becomes code NOT_FOUND.
//   - Anything else is a 500 with a generic message; the real cause is
//     logged, and the stack is exposed only outside production.
func NewHTTPErrorHandler(log zerolog.Logger, exposeStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, c)

		body := response.ErrorBody{
			Code:      code,
			Message:   msg,
			RequestID: middleware.RequestIDFrom(c),
		}

		logEvt := log.Warn()
		if status >= http.StatusInternalServerError {
			logEvt = log.Error()
			// Never leak internals on server errors.
			body.Message = "Internal Server Error"
			if exposeStack {
				body.Stack = string(debug.Stack())
			}
		}

		logEvt.
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", status).
			Str("code", code).
			Str("request_id", body.RequestID).
			Msg("request failed")

		_ = response.Error(c, status, body)
	}
}

func resolveError(err error, c echo.Context) (status int, code, msg string) {
	// Typed pipeline errors carry their own status and code.
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Message
	}

	// Echo's own errors (bind failures, 404/405 from the router).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, "NOT_FOUND", fmt.Sprintf("Cannot %s %s", c.Request().Method, c.Request().URL.Path)
		case http.StatusMethodNotAllowed:
			return he.Code, "METHOD_NOT_ALLOWED", msg
		case http.StatusBadRequest:
			return he.Code, "VALIDATION_ERROR", msg
		case http.StatusRequestEntityTooLarge:
			return he.Code, "PAYLOAD_TOO_LARGE", msg
		}
		return he.Code, "HTTP_ERROR", msg
	}

	// Known domain errors map to deterministic codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials"
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound, "VEHICLE_NOT_FOUND", "Vehicle not found"
	case errors.Is(err, domain.ErrMaintNotFound):
		return http.StatusNotFound, "MAINT_NOT_FOUND", "Maintenance log not found"
	case errors.Is(err, domain.ErrMaintDone):
		return http.StatusConflict, "MAINT_DONE", "Maintenance already completed"
	case errors.Is(err, domain.ErrDriverNotFound):
		return http.StatusNotFound, "DRIVER_NOT_FOUND", "Driver not found"
	case errors.Is(err, domain.ErrTripNotFound):
		return http.StatusNotFound, "TRIP_NOT_FOUND", "Trip not found"
	case errors.Is(err, domain.ErrInvalidTripState):
		return http.StatusConflict, "INVALID_TRIP_STATE", err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "NOT_FOUND", "User not found"
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error"
}
