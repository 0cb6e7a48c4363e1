package domain

import "errors"

// Store errors are typed so callers never have to inspect driver error
// strings. Repositories translate driver failures into these sentinels.
var (
	// ErrNotFound is returned when no document matched the given filter.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey is returned when an insert or update violates a
	// unique index (e.g. user email, group name).
	ErrDuplicateKey = errors.New("duplicate key")
)
