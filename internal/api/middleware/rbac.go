package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// RequireRole authorizes the request's identity against a required role
// set. Each route declares its own set; there is no global policy. Invoking
// the guard without a prior Authenticate is a 401, a role outside the set
// is a 403.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
		names = append(names, r.String())
	}
	requirement := strings.Join(names, " | ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity == nil {
				return apierr.Unauthorized("Not authenticated")
			}
			if _, ok := allowed[identity.Role]; !ok {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return apierr.Forbidden(fmt.Sprintf("Requires role: %s", requirement))
			}
			return next(c)
		}
	}
}
