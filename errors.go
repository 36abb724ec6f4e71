package todos

import "errors"

var (
	// ErrNotFound is returned when an item does not exist for the owner
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when the caller cannot be authenticated
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStoreUnavailable is returned when the item store backend fails
	ErrStoreUnavailable = errors.New("store unavailable")
)
