// Package queue defines the message payloads exchanged over the broker
// plus the publisher and the background consumer that records them.
package queue

// Queue names used on the broker.  The routing key equals the queue
// name since everything goes through the default exchange.
const (
	ReservationQueuedQueue = "reservation.queued"
	OrderCreatedQueue      = "order.created"
)

// ReservationQueuedEvent is published when a reservation joins a
// location's queue.  It carries enough for downstream consumers to log
// or notify without querying the primary database.
type ReservationQueuedEvent struct {
	ReservationID     uint64 `json:"reservation_id"`
	ReservationNumber string `json:"reservation_number"`
	ClientID          uint64 `json:"client_id"`
	ServiceID         uint64 `json:"service_id"`
	LocationID        uint64 `json:"location_id"`
	VehiclePlate      string `json:"vehicle_plate"`
	QueuePosition     int    `json:"queue_position"`
	QueuedAt          string `json:"queued_at"`
}

// OrderCreatedEvent is published when a cart is converted into an order.
type OrderCreatedEvent struct {
	OrderID     uint64  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	ClientID    uint64  `json:"client_id"`
	ItemCount   int     `json:"item_count"`
	TotalAmount float64 `json:"total_amount"`
	CreatedAt   string  `json:"created_at"`
}
