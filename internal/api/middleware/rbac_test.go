package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/core/domain"
)

func guardedContext(role domain.Role, authenticated bool) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/kpis", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if authenticated {
		c.Set(identityKey, &domain.Identity{Subject: "usr-1", Role: role})
	}
	return c
}

func runGuard(c echo.Context, roles ...domain.Role) error {
	h := RequireRole(roles...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return h(c)
}

func TestRequireRole_Allows(t *testing.T) {
	c := guardedContext(domain.RoleFinance, true)
	if err := runGuard(c, domain.RoleManager, domain.RoleFinance); err != nil {
		t.Fatalf("finance should pass the kpi guard: %v", err)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	c := guardedContext(domain.RoleDispatcher, true)
	err := runGuard(c, domain.RoleManager, domain.RoleFinance)

	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "FORBIDDEN" || ae.Status != http.StatusForbidden {
		t.Fatalf("got %v, want FORBIDDEN 403", err)
	}
	if !strings.Contains(ae.Message, "manager") || !strings.Contains(ae.Message, "finance") {
		t.Errorf("message %q should name the required roles", ae.Message)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	c := guardedContext("", false)
	err := runGuard(c, domain.RoleManager)

	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "UNAUTHORIZED" || ae.Status != http.StatusUnauthorized {
		t.Fatalf("got %v, want UNAUTHORIZED 401", err)
	}
}
