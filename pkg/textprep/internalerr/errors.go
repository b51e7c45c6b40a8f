package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInputTooLarge    = errors.New("input exceeds size limit")
	ErrStoreUnavailable = errors.New("store unavailable")
)
