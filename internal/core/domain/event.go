package domain

import "time"

// EventAction identifies what happened to a fleet resource.
type EventAction string

const (
	EventVehicleCreated EventAction = "vehicle_created"
	EventMaintOpened    EventAction = "maintenance_opened"
	EventMaintCompleted EventAction = "maintenance_completed"
	EventDriverUpdated  EventAction = "driver_updated"
	EventTripCreated    EventAction = "trip_created"
	EventTripDispatched EventAction = "trip_dispatched"
	EventTripCompleted  EventAction = "trip_completed"
	EventTripCancelled  EventAction = "trip_cancelled"
)

// FleetEvent is one entry of the audit trail. Events are recorded
// best-effort after a state change has been persisted; losing one never
// fails the originating request.
type FleetEvent struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	EntityType string      `json:"entityType" bson:"entity_type"`
	EntityID   string      `json:"entityId" bson:"entity_id"`
	Action     EventAction `json:"action" bson:"action"`
	Actor      string      `json:"actor" bson:"actor"`
	Note       string      `json:"note,omitempty" bson:"note,omitempty"`
	OccurredAt time.Time   `json:"occurredAt" bson:"occurred_at"`
}
