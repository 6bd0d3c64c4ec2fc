package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

type stubVehicleRepo struct {
	vehicles map[string]*domain.Vehicle
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{vehicles: make(map[string]*domain.Vehicle)}
}

func cloneVehicle(v *domain.Vehicle) *domain.Vehicle {
	clone := *v
	clone.Maintenance = append([]domain.MaintenanceLog(nil), v.Maintenance...)
	return &clone
}

func (r *stubVehicleRepo) Create(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	r.vehicles[v.ID] = cloneVehicle(v)
	return cloneVehicle(v), nil
}

func (r *stubVehicleRepo) FindByID(_ context.Context, id string) (*domain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	return cloneVehicle(v), nil
}

func (r *stubVehicleRepo) List(_ context.Context) ([]*domain.Vehicle, error) {
	out := make([]*domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, cloneVehicle(v))
	}
	return out, nil
}

func (r *stubVehicleRepo) ListByStatus(_ context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	var out []*domain.Vehicle
	for _, v := range r.vehicles {
		if v.Status == status {
			out = append(out, cloneVehicle(v))
		}
	}
	return out, nil
}

func (r *stubVehicleRepo) AddMaintenanceLog(_ context.Context, vehicleID string, log domain.MaintenanceLog) error {
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return domain.ErrVehicleNotFound
	}
	v.Maintenance = append(v.Maintenance, log)
	v.Status = domain.VehicleInShop
	return nil
}

func (r *stubVehicleRepo) CompleteMaintenanceLog(_ context.Context, vehicleID, logID string, completedAt time.Time) error {
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return domain.ErrVehicleNotFound
	}
	for i := range v.Maintenance {
		if v.Maintenance[i].ID != logID {
			continue
		}
		if v.Maintenance[i].CompletedAt != nil {
			return domain.ErrMaintDone
		}
		ts := completedAt
		v.Maintenance[i].CompletedAt = &ts
		v.Status = domain.VehicleActive
		v.LastServiceAt = completedAt
		return nil
	}
	return domain.ErrMaintNotFound
}

func newVehicleService(repo *stubVehicleRepo) *VehicleService {
	return NewVehicleService(repo, nil, zerolog.Nop())
}

func TestVehicleService_OpenMaintenance_ForcesInShop(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := newVehicleService(repo)
	repo.vehicles["veh-1"] = &domain.Vehicle{ID: "veh-1", Status: domain.VehicleActive}

	log, err := svc.OpenMaintenance(context.Background(), "veh-1", "brake inspection", "usr-1")
	if err != nil {
		t.Fatalf("OpenMaintenance returned error: %v", err)
	}
	if log.CompletedAt != nil {
		t.Fatalf("new log must be open")
	}
	if got := repo.vehicles["veh-1"].Status; got != domain.VehicleInShop {
		t.Fatalf("expected in_shop, got %s", got)
	}
}

func TestVehicleService_CompleteMaintenance_RestoresActive(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := newVehicleService(repo)
	repo.vehicles["veh-1"] = &domain.Vehicle{
		ID:     "veh-1",
		Status: domain.VehicleInShop,
		Maintenance: []domain.MaintenanceLog{
			{ID: "mnt-1", Note: "transmission diagnostics", OpenedAt: time.Now().UTC()},
		},
	}

	log, err := svc.CompleteMaintenance(context.Background(), "veh-1", "mnt-1", "usr-1")
	if err != nil {
		t.Fatalf("CompleteMaintenance returned error: %v", err)
	}
	if log.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}

	v := repo.vehicles["veh-1"]
	if v.Status != domain.VehicleActive {
		t.Fatalf("expected active, got %s", v.Status)
	}
	if !v.LastServiceAt.Equal(*log.CompletedAt) {
		t.Fatalf("lastServiceAt %v does not match completion %v", v.LastServiceAt, *log.CompletedAt)
	}
}

// Completing twice must mutate state at most once and fail with ErrMaintDone
// on the second call.
func TestVehicleService_CompleteMaintenance_Idempotence(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := newVehicleService(repo)
	repo.vehicles["veh-1"] = &domain.Vehicle{
		ID:     "veh-1",
		Status: domain.VehicleInShop,
		Maintenance: []domain.MaintenanceLog{
			{ID: "mnt-1", Note: "oil change", OpenedAt: time.Now().UTC()},
		},
	}

	first, err := svc.CompleteMaintenance(context.Background(), "veh-1", "mnt-1", "usr-1")
	if err != nil {
		t.Fatalf("first complete failed: %v", err)
	}

	if _, err := svc.CompleteMaintenance(context.Background(), "veh-1", "mnt-1", "usr-1"); !errors.Is(err, domain.ErrMaintDone) {
		t.Fatalf("expected ErrMaintDone, got %v", err)
	}

	v := repo.vehicles["veh-1"]
	if v.Status != domain.VehicleActive {
		t.Fatalf("second call changed status to %s", v.Status)
	}
	if !v.Maintenance[0].CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("second call changed completion timestamp")
	}
}

func TestVehicleService_CompleteMaintenance_NotFound(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := newVehicleService(repo)

	if _, err := svc.CompleteMaintenance(context.Background(), "veh-missing", "mnt-1", "usr-1"); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}

	repo.vehicles["veh-1"] = &domain.Vehicle{ID: "veh-1", Status: domain.VehicleActive}
	if _, err := svc.CompleteMaintenance(context.Background(), "veh-1", "mnt-missing", "usr-1"); !errors.Is(err, domain.ErrMaintNotFound) {
		t.Fatalf("expected ErrMaintNotFound, got %v", err)
	}
}

func TestVehicleService_ListForRole_RedactsMaintenanceForFinance(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := newVehicleService(repo)
	repo.vehicles["veh-1"] = &domain.Vehicle{
		ID:     "veh-1",
		Status: domain.VehicleInShop,
		Maintenance: []domain.MaintenanceLog{
			{ID: "mnt-1", Note: "suspension work", OpenedAt: time.Now().UTC()},
		},
	}

	finance, err := svc.ListForRole(context.Background(), domain.RoleFinance)
	if err != nil {
		t.Fatalf("ListForRole(finance) error: %v", err)
	}
	if len(finance) != 1 || finance[0].Maintenance != nil {
		t.Fatalf("finance view must not include maintenance logs")
	}

	dispatcher, err := svc.ListForRole(context.Background(), domain.RoleDispatcher)
	if err != nil {
		t.Fatalf("ListForRole(dispatcher) error: %v", err)
	}
	if len(dispatcher) != 1 || len(dispatcher[0].Maintenance) != 1 {
		t.Fatalf("dispatcher view must include maintenance logs")
	}

	// Redaction must not leak back into the stored record.
	if len(repo.vehicles["veh-1"].Maintenance) != 1 {
		t.Fatalf("redaction mutated the stored vehicle")
	}
}

func TestVehicleService_KPIs(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := newVehicleService(repo)
	repo.vehicles["veh-1"] = &domain.Vehicle{ID: "veh-1", Status: domain.VehicleActive, Mileage: 100}
	repo.vehicles["veh-2"] = &domain.Vehicle{ID: "veh-2", Status: domain.VehicleInShop, Mileage: 300}

	kpis, err := svc.KPIs(context.Background())
	if err != nil {
		t.Fatalf("KPIs error: %v", err)
	}
	if kpis.TotalVehicles != 2 || kpis.Active != 1 || kpis.InShop != 1 {
		t.Fatalf("unexpected counts: %+v", kpis)
	}
	if kpis.AverageMileage != 200 {
		t.Fatalf("expected average mileage 200, got %d", kpis.AverageMileage)
	}
}

func TestVehicleService_KPIs_AverageRounds(t *testing.T) {
	repo := newStubVehicleRepo()
	svc := newVehicleService(repo)
	repo.vehicles["veh-1"] = &domain.Vehicle{ID: "veh-1", Status: domain.VehicleActive, Mileage: 100}
	repo.vehicles["veh-2"] = &domain.Vehicle{ID: "veh-2", Status: domain.VehicleActive, Mileage: 101}
	repo.vehicles["veh-3"] = &domain.Vehicle{ID: "veh-3", Status: domain.VehicleActive, Mileage: 101}

	kpis, err := svc.KPIs(context.Background())
	if err != nil {
		t.Fatalf("KPIs error: %v", err)
	}
	// 302/3 = 100.67, rounds to 101 rather than truncating to 100.
	if kpis.AverageMileage != 101 {
		t.Fatalf("expected rounded average 101, got %d", kpis.AverageMileage)
	}
}

var _ ports.VehicleRepository = (*stubVehicleRepo)(nil)
