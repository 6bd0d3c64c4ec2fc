package domain

import (
	"errors"
	"time"
)

// DriverStatus is the availability state of a driver.
type DriverStatus string

const (
	DriverActive   DriverStatus = "active"
	DriverInactive DriverStatus = "inactive"
)

var ErrDriverNotFound = errors.New("driver not found")

// Driver is an independent entity referenced by trips.
type Driver struct {
	ID               string       `json:"id" bson:"_id,omitempty"`
	Name             string       `json:"name" bson:"name"`
	LicenseNumber    string       `json:"licenseNumber" bson:"license_number"`
	LicenseExpiresAt time.Time    `json:"licenseExpiresAt" bson:"license_expires_at"`
	Status           DriverStatus `json:"status" bson:"status"`
	CreatedAt        time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" bson:"updated_at"`
}
