package errors

import "errors"

var (
	ErrNotFound = errors.New("meeting not found")

	// ErrDuplicateSlot is returned when a confirmed meeting already
	// occupies the (host, start time) tuple. It is the storage-level
	// half of the double-booking guard.
	ErrDuplicateSlot = errors.New("slot already has a confirmed meeting")
)
