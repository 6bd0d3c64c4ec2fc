package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
)

// AccessLog emits one structured line per request. The level tracks the
// outcome: 5xx at error, 4xx at warn, everything else at info.
func AccessLog(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}

			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case status >= http.StatusBadRequest:
				evt = log.Warn()
			}

			evt.
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Str("request_id", RequestIDFrom(c)).
				Msg("request")

			return err
		}
	}
}

// statusOf extracts the status an error will render with, before the error
// handler has run.
func statusOf(err error) int {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
