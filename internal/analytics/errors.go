package analytics

import "errors"

var (
	// ErrInvalidInput marks input rejected before it reaches the store.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a lookup that matched nothing.
	ErrNotFound = errors.New("not found")
)
