// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers and services to distinguish between failure
// scenarios: ErrForbidden indicates that the current user is not
// authorized to touch a resource owned by someone else, ErrEmailExists
// signals a duplicate registration.  Row absence is reported with
// sql.ErrNoRows as everywhere else in the codebase.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering a user whose email is
// already taken.  Handlers should translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")
