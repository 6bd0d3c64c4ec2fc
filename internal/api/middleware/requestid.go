package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDKey = "request_id"

// RequestID attaches a correlation id to every request: an incoming
// X-Request-ID is passed through (so a gateway can supply its own),
// otherwise a fresh UUID is generated. The id is echoed on the response and
// stored in the request context for logging and error envelopes.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(echo.HeaderXRequestID))
			if id == "" {
				id = uuid.NewString()
			}

			c.Set(requestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			return next(c)
		}
	}
}

// RequestIDFrom returns the correlation id attached by RequestID, or "".
func RequestIDFrom(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
