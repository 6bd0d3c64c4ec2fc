package domain

import (
	"errors"
	"time"
)

// TripStatus represents the lifecycle state of a trip.
type TripStatus string

const (
	TripPlanned    TripStatus = "planned"
	TripDispatched TripStatus = "dispatched"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// tripTransitions defines the allowed state machine transitions.
// completed and cancelled are terminal.
var tripTransitions = map[TripStatus][]TripStatus{
	TripPlanned:    {TripDispatched, TripCancelled},
	TripDispatched: {TripCompleted, TripCancelled},
}

var ErrTripNotFound = errors.New("trip not found")
var ErrInvalidTripState = errors.New("invalid trip state transition")

// CanTransitionTo reports whether a transition from s to next is valid.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	for _, allowed := range tripTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s TripStatus) Terminal() bool {
	return len(tripTransitions[s]) == 0
}

// Trip references its vehicle and driver by id; referential cleanup is the
// persistence layer's concern.
type Trip struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	VehicleID   string     `json:"vehicleId" bson:"vehicle_id"`
	DriverID    string     `json:"driverId" bson:"driver_id"`
	Origin      string     `json:"origin" bson:"origin"`
	Destination string     `json:"destination" bson:"destination"`
	ScheduledAt time.Time  `json:"scheduledAt" bson:"scheduled_at"`
	Status      TripStatus `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
