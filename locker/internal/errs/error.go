package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrItemUnavailable    = errors.New("item unavailable")
	ErrCellOccupied       = errors.New("cell occupied")
	ErrInvalidState       = errors.New("invalid state")
	ErrCodeExpired        = errors.New("pickup code expired")
	ErrCodeMismatch       = errors.New("pickup code mismatch")
	ErrRateLimited        = errors.New("too many code requests")
	ErrBadCredentials     = errors.New("bad credentials")
	ErrReturnDateRequired = errors.New("planned return date is required")
	ErrSweepRunning       = errors.New("sweep already running")
)
