package model

import "time"

// CartItem holds one catalog entry in a client's cart.  There is at
// most one row per (client, product) pair; repeated adds increment the
// quantity.  PriceAtAdd is captured from the catalog when the row is
// first inserted and is never refreshed afterwards, so later catalog
// price changes do not affect items already in the cart.
type CartItem struct {
	ID               uint64    `json:"id"`
	ClientID         uint64    `json:"client_id"`
	ProductServiceID uint64    `json:"product_service_id"`
	Quantity         int       `json:"quantity"`
	PriceAtAdd       float64   `json:"price_at_add"`
	CreatedAt        time.Time `json:"created_at"`
}

// Subtotal returns the frozen line total for the item.
func (i CartItem) Subtotal() float64 {
	return float64(i.Quantity) * i.PriceAtAdd
}
