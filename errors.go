package diffract

import "errors"

// Package errors for the simulation pipeline.
var (
	// ErrNilSource is returned when a request carries no source image.
	ErrNilSource = errors.New("diffract: request has no source image")

	// ErrBadExposure is returned when the exposure scalar is negative or
	// not finite.
	ErrBadExposure = errors.New("diffract: exposure must be finite and non-negative")

	// ErrNonFinite is returned when the pipeline intercepts NaN or Inf
	// values before they would reach the image buffer.
	ErrNonFinite = errors.New("diffract: non-finite values in pipeline")
)
