//go:build !nogpu

// Package gpu registers the hardware accelerator for the simulation
// pipeline.
//
// Import this package to route supported pipeline stages through a GPU
// device managed by gogpu. If device initialization fails (no
// Vulkan/Metal/DX12 available), registration is silently skipped and the
// pipeline runs on the CPU; the numerical results are identical either way.
//
// Usage:
//
//	import _ "github.com/waveopt/diffract/gpu" // enable acceleration
package gpu

import (
	"github.com/waveopt/diffract"
)

func init() {
	if err := diffract.RegisterAccelerator(New()); err != nil {
		diffract.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the accelerator to use a shared GPU device
// from an external provider (e.g. a gogpu host window) instead of creating
// its own instance. Call this before submitting requests, after the blank
// import has registered the accelerator.
func SetDeviceProvider(provider any) error {
	return diffract.SetAcceleratorDeviceProvider(provider)
}
