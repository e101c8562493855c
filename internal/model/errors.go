package model

import "errors"

var (
	// ErrPercentageMismatch is returned when the S/M/L split of a record does not sum to 100
	ErrPercentageMismatch = errors.New("percentages must add up to 100")
	// ErrAllocationImbalance flags a phase breakdown that does not sum to 100. It is a warning.
	ErrAllocationImbalance = errors.New("phase allocation does not add up to 100")
	// ErrDivisionByZero is returned when the Develop phase share is zero
	ErrDivisionByZero = errors.New("develop phase percentage must not be zero")
	// ErrMalformedDocument is returned when a configuration document cannot be imported
	ErrMalformedDocument = errors.New("malformed configuration document")
	// ErrUnknownProfile is returned for an unknown project type, technology or profile key
	ErrUnknownProfile = errors.New("unknown default profile")
	// ErrInvalidValue is returned when a value is out of its allowed range
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownProcess is returned when a process is not part of the taxonomy
	ErrUnknownProcess = errors.New("unknown process")
	// ErrUnknownInput is returned when an input is not defined for a process
	ErrUnknownInput = errors.New("unknown input")
)
