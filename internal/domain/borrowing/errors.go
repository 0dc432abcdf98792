package borrowing

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrQuotaExceeded     = errors.New("monthly borrowing request limit exceeded")
	ErrNotFound          = errors.New("borrowing request not found")
	ErrInvalidTransition = errors.New("invalid state transition")
)
