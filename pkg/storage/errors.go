package storage

import "errors"

// Sentinel errors for archive operations.
var (
	// ErrNotFound is returned when a snapshot does not exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrConflict is returned when a snapshot with the given ID already exists.
	ErrConflict = errors.New("snapshot already exists")
)
