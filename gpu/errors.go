//go:build !nogpu

package gpu

import "errors"

// Package errors for the gogpu accelerator.
var (
	// ErrNoGPUBackend is returned when no gogpu backend is available.
	ErrNoGPUBackend = errors.New("gpu: no GPU backend available")

	// ErrDeviceCreationFailed is returned when the logical device cannot
	// be created.
	ErrDeviceCreationFailed = errors.New("gpu: device creation failed")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("gpu: accelerator not initialized")
)
