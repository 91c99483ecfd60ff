package model

import "time"

// PaymentMethod is a staff-managed list entry offered to clients at
// checkout (cash, card, transfer...).  Inactive methods stay in the
// table so existing orders keep a valid reference.
type PaymentMethod struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
