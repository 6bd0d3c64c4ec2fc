package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetflow/fleet-api/internal/api/middleware"
	"github.com/fleetflow/fleet-api/internal/api/response"
)

const serviceName = "FleetFlow API"

type HealthHandler struct {
	version     string
	db          *mongo.Database
	sessions    *redis.Client
	rateLimiter *redis.Client
}

func NewHealthHandler(version string, db *mongo.Database, sessions, rateLimiter *redis.Client) *HealthHandler {
	return &HealthHandler{
		version:     version,
		db:          db,
		sessions:    sessions,
		rateLimiter: rateLimiter,
	}
}

// Liveness reports that the process is up. It never touches dependencies.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return response.JSON(c, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   serviceName,
		"version":   h.version,
		"time":      time.Now().UTC().Format(time.RFC3339),
		"requestId": middleware.RequestIDFrom(c),
	})
}

// Readiness pings every backing store and reports per-dependency status.
// Any failing dependency turns the overall response into a 503.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Failure      503  {object}  response.Envelope
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := map[string]string{}
	healthy := true

	if err := h.db.Client().Ping(ctx, nil); err != nil {
		deps["mongodb"] = err.Error()
		healthy = false
	} else {
		deps["mongodb"] = "ok"
	}

	if err := h.sessions.Ping(ctx).Err(); err != nil {
		deps["redis_sessions"] = err.Error()
		healthy = false
	} else {
		deps["redis_sessions"] = "ok"
	}

	if err := h.rateLimiter.Ping(ctx).Err(); err != nil {
		deps["redis_ratelimit"] = err.Error()
		healthy = false
	} else {
		deps["redis_ratelimit"] = "ok"
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	return response.JSON(c, status, map[string]any{
		"status":       overall,
		"service":      serviceName,
		"dependencies": deps,
	})
}
