package store

import "errors"

var (
	// ErrItemNotFound indicates the requested history entry does not exist.
	ErrItemNotFound = errors.New("clipboard item not found")

	// ErrExecutingQuery wraps database execution failures.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRow wraps row scan failures.
	ErrScanningRow = errors.New("error scanning row")
)
