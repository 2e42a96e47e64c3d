package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every repository implementation when a
	// record does not exist, so callers can branch with errors.Is instead
	// of matching error strings.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is wrapped when a write violates a unique index (email,
	// slug). Services translate it to their own taxonomy; it closes the
	// pre-check/insert race between concurrent requests.
	ErrDuplicate = errors.New("duplicate record")
)
