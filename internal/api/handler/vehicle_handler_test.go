package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/api/response"
	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

type stubVehicleService struct {
	listedRole  domain.Role
	vehicles    []*domain.Vehicle
	created     *ports.CreateVehicleInput
	completeErr error
}

var _ ports.VehicleService = (*stubVehicleService)(nil)

func (s *stubVehicleService) ListForRole(_ context.Context, role domain.Role) ([]*domain.Vehicle, error) {
	s.listedRole = role
	return s.vehicles, nil
}

func (s *stubVehicleService) ListInShop(_ context.Context) ([]*domain.Vehicle, error) {
	return s.vehicles, nil
}

func (s *stubVehicleService) KPIs(_ context.Context) (*ports.VehicleKPIs, error) {
	return &ports.VehicleKPIs{TotalVehicles: len(s.vehicles)}, nil
}

func (s *stubVehicleService) Create(_ context.Context, input ports.CreateVehicleInput, _ string) (*domain.Vehicle, error) {
	s.created = &input
	return &domain.Vehicle{ID: "veh-1", Plate: input.Plate, UnitNumber: input.UnitNumber, Mileage: input.Mileage, Status: domain.VehicleActive}, nil
}

func (s *stubVehicleService) OpenMaintenance(_ context.Context, vehicleID, note, _ string) (*domain.MaintenanceLog, error) {
	return &domain.MaintenanceLog{ID: "mnt-1", Note: note}, nil
}

func (s *stubVehicleService) CompleteMaintenance(_ context.Context, vehicleID, logID, _ string) (*domain.MaintenanceLog, error) {
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return &domain.MaintenanceLog{ID: logID}, nil
}

func vehicleTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asIdentity(c echo.Context, role domain.Role) {
	c.Set("identity", &domain.Identity{Subject: "usr-1", Role: role})
}

func TestVehicleHandler_List_PassesCallerRole(t *testing.T) {
	svc := &stubVehicleService{vehicles: []*domain.Vehicle{{ID: "veh-1"}, {ID: "veh-2"}}}
	h := NewVehicleHandler(svc)

	c, rec := vehicleTestContext(http.MethodGet, "/api/vehicles", "")
	asIdentity(c, domain.RoleFinance)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.listedRole != domain.RoleFinance {
		t.Errorf("service saw role %q, want finance", svc.listedRole)
	}

	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success || env.Count == nil || *env.Count != 2 {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestVehicleHandler_List_RequiresIdentity(t *testing.T) {
	h := NewVehicleHandler(&stubVehicleService{})
	c, _ := vehicleTestContext(http.MethodGet, "/api/vehicles", "")

	err := h.List(c)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "UNAUTHORIZED" {
		t.Fatalf("got %v, want UNAUTHORIZED", err)
	}
}

func TestVehicleHandler_Create(t *testing.T) {
	svc := &stubVehicleService{}
	h := NewVehicleHandler(svc)

	c, rec := vehicleTestContext(http.MethodPost, "/api/vehicles",
		`{"plate":"ABC-123","unitNumber":"T-42","mileage":1200}`)
	asIdentity(c, domain.RoleManager)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if svc.created == nil || svc.created.Plate != "ABC-123" || svc.created.Mileage != 1200 {
		t.Fatalf("service input = %+v", svc.created)
	}
}

func TestVehicleHandler_Create_ValidationFailure(t *testing.T) {
	h := NewVehicleHandler(&stubVehicleService{})

	c, _ := vehicleTestContext(http.MethodPost, "/api/vehicles",
		`{"plate":"AB","unitNumber":"","mileage":-5}`)
	asIdentity(c, domain.RoleManager)

	err := h.Create(c)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("got %v, want VALIDATION_ERROR", err)
	}
	for _, field := range []string{"plate", "unitnumber", "mileage"} {
		if !strings.Contains(ae.Message, field) {
			t.Errorf("message %q should mention %s", ae.Message, field)
		}
	}
}

func TestVehicleHandler_CompleteMaintenance_PropagatesConflict(t *testing.T) {
	h := NewVehicleHandler(&stubVehicleService{completeErr: domain.ErrMaintDone})

	c, _ := vehicleTestContext(http.MethodPatch, "/api/vehicles/veh-1/maintenance/mnt-1/complete", "")
	c.SetParamNames("id", "logId")
	c.SetParamValues("veh-1", "mnt-1")
	asIdentity(c, domain.RoleSafety)

	if err := h.CompleteMaintenance(c); !errors.Is(err, domain.ErrMaintDone) {
		t.Fatalf("got %v, want ErrMaintDone passed through", err)
	}
}
