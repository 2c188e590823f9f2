// Package apperr defines the stable domain error kinds surfaced by the
// service layer. Handlers translate them to HTTP statuses; services never
// leak raw database errors for precondition failures.
package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrExternalUnavailable = errors.New("external source unavailable")
)
