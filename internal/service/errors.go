// Package service holds the business rules of the back office: the
// location queue state machine and the cart-to-order conversion.  It
// talks to storage through small store interfaces so the rules can be
// exercised in tests without a database.
package service

import "errors"

// Sentinel errors returned by the services.  Handlers map these to
// HTTP status codes; anything else is a 500.
var (
	// ErrNotFound is returned when the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidService is returned when a reservation references a
	// catalog entry that is missing, soft-deleted or not of kind service.
	ErrInvalidService = errors.New("invalid service")
	// ErrProductNotFound is returned when a cart operation references a
	// missing or soft-deleted catalog entry.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidQuantity is returned when a cart quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrEmptyCart is returned when converting a cart that has no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidStatus is returned when a status value is not part of
	// the known set.
	ErrInvalidStatus = errors.New("unknown status")
	// ErrInvalidTransition is returned when a status change is not
	// allowed from the entity's current state.
	ErrInvalidTransition = errors.New("status transition not allowed")
)
