package domain

import "errors"

// Error taxonomy translated to HTTP status codes at the delivery layer.
// Wrap with fmt.Errorf("%w: ...", ErrX, ...) to carry context.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)
