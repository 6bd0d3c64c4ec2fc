package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/api/middleware"
	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Authenticate guard and
// fast-fails when a handler is reached without it (misconfigured route).
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return nil, apierr.Unauthorized("Missing authentication claims")
	}
	return identity, nil
}

// actor returns the audit-trail actor string for the current caller.
func actor(c echo.Context) string {
	if identity := middleware.IdentityFrom(c); identity != nil {
		return identity.Subject
	}
	return "anonymous"
}
