package model

import "time"

// Location is one physical wash site run by an owner.  Each location
// has its own independent reservation queue.  Rows are soft-deleted by
// flipping Status from "A" to "D" so historic reservations and
// invoices keep their references.
type Location struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	UserID    uint64     `json:"user_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
