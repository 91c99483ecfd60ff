package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatusActive(t *testing.T) {
	assert.True(t, ReservationPending.Active())
	assert.True(t, ReservationAccepted.Active())
	assert.True(t, ReservationInProgress.Active())
	assert.False(t, ReservationCompleted.Active())
	assert.False(t, ReservationCancelled.Active())
	assert.False(t, ReservationStatus("shipped").Active())
}

func TestReservationTerminalStatesHaveNoExits(t *testing.T) {
	all := []ReservationStatus{
		ReservationPending, ReservationAccepted, ReservationInProgress,
		ReservationCompleted, ReservationCancelled,
	}
	for _, next := range all {
		assert.False(t, ReservationCompleted.CanTransitionTo(next), "completed -> %s", next)
		assert.False(t, ReservationCancelled.CanTransitionTo(next), "cancelled -> %s", next)
	}
}

func TestReservationStatusValid(t *testing.T) {
	assert.True(t, ReservationPending.Valid())
	assert.False(t, ReservationStatus("").Valid())
	assert.False(t, ReservationStatus("done").Valid())
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderPaid.Valid())
	assert.False(t, OrderStatus("refunded").Valid())
}
