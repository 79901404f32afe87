package usecase

import "errors"

// Sentinel errors. Services wrap them with context; handlers map them to
// HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidState       = errors.New("invalid state")
	ErrRateLimited        = errors.New("too many requests")
	ErrDiscountNotAllowed = errors.New("discount not allowed")
)
