package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidItems       = errors.New("invalid order items")
	ErrStockUnavailable   = errors.New("stock service unavailable")
	ErrDecrementFailed    = errors.New("stock decrement failed")
)
