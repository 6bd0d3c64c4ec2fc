package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
)

func hardened(cfg HardeningConfig) echo.HandlerFunc {
	return Hardening(cfg)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func hardeningContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "198.51.100.4:40000"
	return e.NewContext(req, httptest.NewRecorder())
}

func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected apierr.Error, got %v", err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("got status=%d code=%s, want %d %s", ae.Status, ae.Code, status, code)
	}
}

func TestHardening_AllowsNormalRequest(t *testing.T) {
	h := hardened(HardeningConfig{MaxBodyBytes: 1024, Logger: zerolog.Nop()})
	if err := h(hardeningContext(http.MethodGet, "/api/vehicles")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHardening_BlockedIP(t *testing.T) {
	h := hardened(HardeningConfig{
		BlockedIPs: []string{"198.51.100.4"},
		Logger:     zerolog.Nop(),
	})
	err := h(hardeningContext(http.MethodGet, "/api/vehicles"))
	assertAPIError(t, err, http.StatusForbidden, "IP_BLOCKED")
}

func TestHardening_MethodNotAllowed(t *testing.T) {
	h := hardened(HardeningConfig{Logger: zerolog.Nop()})
	err := h(hardeningContext(http.MethodTrace, "/api/vehicles"))
	assertAPIError(t, err, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestHardening_OversizedBody(t *testing.T) {
	h := hardened(HardeningConfig{MaxBodyBytes: 1024, Logger: zerolog.Nop()})
	c := hardeningContext(http.MethodPost, "/api/vehicles")
	c.Request().Header.Set(echo.HeaderContentLength, strconv.Itoa(2048))

	err := h(c)
	assertAPIError(t, err, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE")
}

func TestHardening_PathTraversal(t *testing.T) {
	h := hardened(HardeningConfig{Logger: zerolog.Nop()})
	for _, target := range []string{"/api/../etc/passwd", "/api//vehicles"} {
		err := h(hardeningContext(http.MethodGet, target))
		assertAPIError(t, err, http.StatusBadRequest, "INVALID_PATH")
	}
}
