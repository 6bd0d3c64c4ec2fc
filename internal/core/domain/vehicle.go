package domain

import (
	"errors"
	"time"
)

// VehicleStatus represents the operational state of a vehicle.
// inactive is reachable only through an administrative path, never by the
// maintenance routes.
type VehicleStatus string

const (
	VehicleActive   VehicleStatus = "active"
	VehicleInShop   VehicleStatus = "in_shop"
	VehicleInactive VehicleStatus = "inactive"
)

var ErrVehicleNotFound = errors.New("vehicle not found")
var ErrMaintNotFound = errors.New("maintenance log not found")
var ErrMaintDone = errors.New("maintenance already completed")

// MaintenanceLog records one shop visit. It is owned by its vehicle and is
// mutated exactly once, when the work completes.
type MaintenanceLog struct {
	ID          string     `json:"id" bson:"id"`
	Note        string     `json:"note" bson:"note"`
	OpenedAt    time.Time  `json:"openedAt" bson:"opened_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
}

// Open reports whether the log has no completion timestamp yet.
func (m MaintenanceLog) Open() bool { return m.CompletedAt == nil }

// Vehicle is the aggregate root for the fleet's rolling stock.
// Invariant: Status is in_shop exactly when at least one maintenance log
// is open.
type Vehicle struct {
	ID            string           `json:"id" bson:"_id,omitempty"`
	Plate         string           `json:"plate" bson:"plate"`
	UnitNumber    string           `json:"unitNumber" bson:"unit_number"`
	Status        VehicleStatus    `json:"status" bson:"status"`
	Mileage       int64            `json:"mileage" bson:"mileage"`
	LastServiceAt time.Time        `json:"lastServiceAt" bson:"last_service_at"`
	Maintenance   []MaintenanceLog `json:"maintenance,omitempty" bson:"maintenance"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
}

// FindLog returns the maintenance log with the given id, or ErrMaintNotFound.
func (v *Vehicle) FindLog(logID string) (*MaintenanceLog, error) {
	for i := range v.Maintenance {
		if v.Maintenance[i].ID == logID {
			return &v.Maintenance[i], nil
		}
	}
	return nil, ErrMaintNotFound
}

// HasOpenMaintenance reports whether any log is still open.
func (v *Vehicle) HasOpenMaintenance() bool {
	for _, m := range v.Maintenance {
		if m.Open() {
			return true
		}
	}
	return false
}
