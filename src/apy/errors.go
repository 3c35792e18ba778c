package apy

import "errors"

var (
	// ErrInvalidInput is returned for missing or negative rates and for a
	// calculator configured with a zero cadence.
	ErrInvalidInput = errors.New("invalid input")
	// ErrArithmeticOverflow is returned when an intermediate value does not
	// fit in 256 bits.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrReserveNotFound is returned when no reserve exists for the asset.
	ErrReserveNotFound = errors.New("reserve not found")
	// ErrOutOfRangeRate is returned when a rate fails the sanity bound.
	ErrOutOfRangeRate = errors.New("rate out of range")
)
