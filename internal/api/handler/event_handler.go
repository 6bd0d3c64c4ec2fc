package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/response"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

const defaultEventLimit = 50

type EventHandler struct {
	eventService ports.EventService
}

func NewEventHandler(eventService ports.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListRecent returns the newest audit trail entries.
//
// @Summary      Recent fleet events
// @Tags         events
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries, default 50"
// @Success      200    {object}  response.Envelope
// @Router       /api/events [get]
func (h *EventHandler) ListRecent(c echo.Context) error {
	limit := defaultEventLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.eventService.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return response.List(c, http.StatusOK, events)
}
