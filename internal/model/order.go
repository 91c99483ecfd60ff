package model

import "time"

// Order is the immutable result of converting a client's cart.  The
// total is computed from the cart's frozen prices at conversion time
// and is never recomputed; items cannot be changed after creation,
// only the status advances.
type Order struct {
	ID            uint64      `json:"id"`
	Number        string      `json:"order_number"`
	ClientID      uint64      `json:"client_id"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total_amount"`
	PaymentMethod *string     `json:"payment_method,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots one cart line at conversion time: the product
// reference, the quantity and the unit price frozen when the item was
// added to the cart.
type OrderItem struct {
	ID               uint64  `json:"id"`
	OrderID          uint64  `json:"order_id"`
	ProductServiceID uint64  `json:"product_service_id"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	Subtotal         float64 `json:"subtotal"`
}
