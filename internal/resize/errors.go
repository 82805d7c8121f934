package resize

import "errors"

var (
	// ErrWindowUnavailable is returned when the target has no live floating
	// window: never enabled, disabled, or destroyed.
	ErrWindowUnavailable = errors.New("floating window unavailable")

	// ErrInvalidSize is returned for a requested width or height <= 0.
	ErrInvalidSize = errors.New("invalid size")
)
