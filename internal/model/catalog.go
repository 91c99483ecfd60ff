package model

import "time"

// Catalog entry kinds.  Only entries of kind "service" can be booked
// into a location's queue; both kinds can be added to a cart.
const (
	KindProduct = "product"
	KindService = "service"
)

// ProductService is a sellable catalog entry: either a physical
// product or a wash service.  Code is a generated human-readable
// identifier (PROD-000001 / SERV-000001).  Rows are soft-deleted by
// flipping Status from "A" to "D".
type ProductService struct {
	ID          uint64     `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Kind        string     `json:"type"`
	Price       float64    `json:"price"`
	UserID      uint64     `json:"user_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// CatalogEntry is the minimal view of a catalog row needed by the
// queue and checkout services: the current price and whether the entry
// is a product or a service.
type CatalogEntry struct {
	ID    uint64
	Price float64
	Kind  string
}
