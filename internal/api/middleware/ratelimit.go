package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

// Rate limit headers. Limit/Remaining/Reset are set on every response that
// passes through the limiter; Retry-After only on 429.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// RateLimitConfig configures one limiter tier. Tiers with different
// prefixes use disjoint counter namespaces, so exhausting one never
// throttles another.
type RateLimitConfig struct {
	Counter ports.RateCounter
	Window  time.Duration
	Max     int64
	// Prefix namespaces the counter keys, e.g. "ff:rl:" or "ff:rl:auth:".
	Prefix string
	// Tier labels metrics and logs: "default" or "auth".
	Tier   string
	Logger zerolog.Logger
}

// RateLimit bounds request rate per client address with a fixed window
// backed by a shared atomic counter. When the counter store is unreachable
// the limiter fails open: the request proceeds unthrottled and unrecorded.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Prefix + c.RealIP()

			count, resetAt, err := cfg.Counter.Incr(c.Request().Context(), key, cfg.Window)
			if err != nil {
				// Fail-open: availability over strict fairness.
				metrics.RateLimitStoreFailures.Inc()
				cfg.Logger.Warn().Err(err).
					Str("tier", cfg.Tier).
					Str("request_id", RequestIDFrom(c)).
					Msg("rate counter unavailable, failing open")
				return next(c)
			}

			remaining := cfg.Max - count
			if remaining < 0 {
				remaining = 0
			}

			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.FormatInt(cfg.Max, 10))
			h.Set(HeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(resetAt.Unix(), 10))

			if count > cfg.Max {
				retryAfter := int64(time.Until(resetAt).Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}
				h.Set(HeaderRetryAfter, strconv.FormatInt(retryAfter, 10))
				metrics.RateLimitedTotal.WithLabelValues(cfg.Tier).Inc()
				return apierr.New(http.StatusTooManyRequests, "RATE_LIMITED",
					fmt.Sprintf("Too many requests. Retry after %ds", retryAfter))
			}

			return next(c)
		}
	}
}
