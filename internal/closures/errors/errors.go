package errors

import "errors"

var (
	ErrClosureNotFound = errors.New("closure period not found")
	ErrTimeOffNotFound = errors.New("time-off request not found")

	ErrInvalidID = errors.New("invalid ID format")
)
