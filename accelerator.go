package diffract

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot handle this operation.
// The pipeline transparently falls back to the CPU path.
var ErrFallbackToCPU = errors.New("diffract: falling back to CPU pipeline")

// AcceleratedOp describes operation types for accelerator capability
// checking.
type AcceleratedOp uint32

const (
	// AccelPropagate represents angular-spectrum field propagation.
	AccelPropagate AcceleratedOp = 1 << iota

	// AccelConvolve represents PSF convolution of an image channel.
	AccelConvolve
)

// Accelerator is an optional hardware acceleration provider.
//
// When registered via RegisterAccelerator, the pipeline tries the
// accelerator first for supported operations. If it returns
// ErrFallbackToCPU or any other error, the operation runs on the CPU path
// instead; the numerical results are identical either way.
//
// Implementations are provided by backend packages. Users opt in via blank
// import:
//
//	import _ "github.com/waveopt/diffract/gpu"
type Accelerator interface {
	// Name returns the accelerator name (e.g. "gogpu").
	Name() string

	// Init initializes device resources. Called once during registration.
	Init() error

	// Close releases device resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given
	// operation. This is a fast check used to skip the accelerator
	// entirely for unsupported operations.
	CanAccelerate(op AcceleratedOp) bool

	// Propagate advances an n×n split complex field (row-major) by distMM
	// over the given physical window at wavelength lambdaMM, in place.
	// Returns ErrFallbackToCPU if the size or parameters are unsupported.
	Propagate(re, im []float64, n int, windowMM, lambdaMM, distMM float64) error

	// Convolve convolves one w×h channel with an n×n PSF centered at
	// (n/2, n/2), writing into dst. Returns ErrFallbackToCPU if the
	// operation cannot be accelerated.
	Convolve(dst, src []float64, w, h int, psf []float64, n int) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a device with an external provider (e.g. a host GPU context).
// When SetDeviceProvider is called, the accelerator reuses the provided
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers an accelerator for optional hardware
// execution.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration; if it fails, the accelerator is not registered and the
// error is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("diffract: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// RegisteredAccelerator returns the currently registered accelerator, or
// nil if none.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling device sharing with a host application. If no
// accelerator is registered or it does not support device sharing, this is
// a no-op.
func SetAcceleratorDeviceProvider(provider any) error {
	a := RegisteredAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
