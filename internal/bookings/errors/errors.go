package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotConflict is returned when the advisory lock for a slot is already
	// held or an occupying booking overlaps the requested window.
	ErrSlotConflict = errors.New("slot conflict")
)
