package model

// ReservationStatus enumerates the lifecycle states of a reservation.
// A reservation occupies a queue slot only while its status is one of
// the active states (pending, accepted, in_progress).  The terminal
// states completed and cancelled have no outgoing transitions, so a
// reservation can never re-enter the queue once it has left it.
type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationAccepted   ReservationStatus = "accepted"
	ReservationInProgress ReservationStatus = "in_progress"
	ReservationCompleted  ReservationStatus = "completed"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// reservationTransitions lists the allowed status changes.  Statuses
// not present as keys are terminal.
var reservationTransitions = map[ReservationStatus]map[ReservationStatus]bool{
	ReservationPending: {
		ReservationAccepted:  true,
		ReservationCancelled: true,
	},
	ReservationAccepted: {
		ReservationInProgress: true,
		ReservationCancelled:  true,
	},
	ReservationInProgress: {
		ReservationCompleted: true,
		ReservationCancelled: true,
	},
	ReservationCompleted: {},
	ReservationCancelled: {},
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	_, ok := reservationTransitions[s]
	return ok
}

// Active reports whether a reservation with this status occupies a
// queue slot.
func (s ReservationStatus) Active() bool {
	switch s {
	case ReservationPending, ReservationAccepted, ReservationInProgress:
		return true
	}
	return false
}

// CanTransitionTo reports whether the change from s to next is allowed
// by the transition table.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	allowed, ok := reservationTransitions[s]
	if !ok {
		return false
	}
	return allowed[next]
}

// ActiveReservationStatuses returns the statuses that occupy a queue
// slot, in a fixed order suitable for building SQL IN clauses.
func ActiveReservationStatuses() []ReservationStatus {
	return []ReservationStatus{ReservationPending, ReservationAccepted, ReservationInProgress}
}

// OrderStatus enumerates the states of an order.  Unlike reservations,
// order workflow is owned by back-office staff, so any change between
// known statuses is accepted; only unknown values are rejected.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}
