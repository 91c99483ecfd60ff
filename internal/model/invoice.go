package model

import "time"

// Invoice is a manually issued sales document.  The total is the sum
// of its item subtotals, computed once at creation.  Rendering
// (PDF/CSV) is out of scope for this service; invoices are exposed as
// plain JSON.
type Invoice struct {
	ID           uint64        `json:"id"`
	Number       string        `json:"invoice_number"`
	Date         time.Time     `json:"date"`
	CustomerName string        `json:"customer_name"`
	Total        float64       `json:"total_amount"`
	LocationID   uint64        `json:"location_id"`
	UserID       uint64        `json:"user_id"`
	Status       string        `json:"status"`
	Items        []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is one billed line on an invoice.
type InvoiceItem struct {
	ID               uint64  `json:"id"`
	InvoiceID        uint64  `json:"invoice_id"`
	ProductServiceID uint64  `json:"product_service_id"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	Subtotal         float64 `json:"subtotal"`
}
