package policy

import "errors"

// Decision errors. Handlers map these onto HTTP status codes; the
// policy itself never speaks HTTP.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrConflict        = errors.New("operation conflicts with current state")
	ErrNotFound        = errors.New("resource not found")
	ErrValidation      = errors.New("invalid input")
	ErrDependency      = errors.New("dependency failure")
)
