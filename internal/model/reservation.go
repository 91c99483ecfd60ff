package model

import "time"

// Reservation records a client's place in the service queue of a
// location.  The queue position is populated only while the status is
// active; when the reservation completes or is cancelled the position
// is cleared and the remaining active reservations at the location are
// shifted forward so positions stay contiguous from 1.
//
// Fields:
//  ID            – primary key identifier.
//  Number        – human-readable reservation number (RES-...), unique.
//  ClientID      – user who booked the service.
//  ServiceID     – catalog entry of kind "service" being booked.
//  LocationID    – location whose queue the reservation joins.
//  VehiclePlate  – licence plate of the vehicle to be serviced.
//  Status        – lifecycle state (see ReservationStatus).
//  QueuePosition – 1-based rank within the location's active queue,
//                  nil when the reservation is not queued.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64            `json:"id"`
	Number        string            `json:"reservation_number"`
	ClientID      uint64            `json:"client_id"`
	ServiceID     uint64            `json:"service_id"`
	LocationID    uint64            `json:"location_id"`
	VehiclePlate  string            `json:"vehicle_plate"`
	Status        ReservationStatus `json:"status"`
	QueuePosition *int              `json:"queue_position"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
