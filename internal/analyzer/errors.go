package analyzer

import "errors"

var (
	// ErrInsufficientData is returned when emotion analysis has no samples.
	// Empty interaction batches are not an error.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfiguration is returned for a non-positive threshold or
	// window.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
