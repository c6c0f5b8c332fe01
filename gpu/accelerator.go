//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gogpu/gpu"
	"github.com/gogpu/gogpu/gpu/types"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/waveopt/diffract"
	"github.com/waveopt/diffract/internal/convolve"
)

// Accelerator executes pipeline stages against a gogpu-managed device.
//
// It implements diffract.Accelerator. The device is created lazily on Init
// (or adopted from a host via SetDeviceProvider) and a staging context is
// cached per grid resolution: changing resolution tears the old context
// down and builds a new one.
//
// Phase 1: buffers are staged against the device context but the
// convolution kernels run on the shared CPU implementations, so the
// numerical contract is identical to the unaccelerated pipeline.
// Propagation is not claimed yet (CanAccelerate reports false for it).
//
// Accelerator is safe for concurrent use from multiple goroutines.
type Accelerator struct {
	mu sync.RWMutex

	gpuBackend gpu.Backend
	instance   types.Instance
	adapter    types.Adapter
	device     types.Device
	queue      types.Queue

	// Shared host device, when provided.
	provider gpucontext.DeviceProvider

	ctx *stageContext

	logger      *slog.Logger
	initialized bool
}

// New creates an unregistered accelerator. Most callers rely on the blank
// import of this package instead of calling New directly.
func New() *Accelerator {
	return &Accelerator{logger: diffract.Logger()}
}

// Name implements diffract.Accelerator.
func (a *Accelerator) Name() string { return "gogpu" }

// SetLogger routes accelerator logs through the given logger.
func (a *Accelerator) SetLogger(l *slog.Logger) {
	a.mu.Lock()
	a.logger = l
	a.mu.Unlock()
}

// Init creates the GPU resources: instance, adapter, logical device and
// queue. Returns an error when no backend or adapter is available, in
// which case the accelerator stays unregistered and the pipeline runs on
// the CPU.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}

	gpuBackend := gpu.GetBackend()
	if gpuBackend == nil {
		if err := gpu.InitDefaultBackend(); err != nil {
			return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
		}
		gpuBackend = gpu.GetBackend()
	}
	if gpuBackend == nil {
		return ErrNoGPUBackend
	}
	a.gpuBackend = gpuBackend

	instance, err := gpuBackend.CreateInstance()
	if err != nil {
		return fmt.Errorf("gpu: instance creation failed: %w", err)
	}
	a.instance = instance

	adapter, err := gpuBackend.RequestAdapter(instance, &types.AdapterOptions{
		PowerPreference: types.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
	}
	a.adapter = adapter

	device, err := gpuBackend.RequestDevice(adapter, &types.DeviceOptions{
		Label: "diffract-device",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceCreationFailed, err)
	}
	a.device = device
	a.queue = gpuBackend.GetQueue(device)

	a.initialized = true
	a.logger.Info("accelerator initialized", "backend", gpuBackend.Name())
	return nil
}

// Close releases all device resources and the cached staging context.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	if a.ctx != nil {
		a.ctx.release()
		a.ctx = nil
	}

	// Handles are managed by the gogpu backend; zeroing them is enough.
	a.device = 0
	a.adapter = 0
	a.instance = 0
	a.queue = 0
	a.gpuBackend = nil
	a.initialized = false
	a.logger.Info("accelerator closed")
}

// SetDeviceProvider adopts a shared host device. Implements
// diffract.DeviceProviderAware. The provider must be a
// gpucontext.DeviceProvider.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	dp, ok := provider.(gpucontext.DeviceProvider)
	if !ok {
		return fmt.Errorf("gpu: provider %T does not implement gpucontext.DeviceProvider", provider)
	}
	a.mu.Lock()
	a.provider = dp
	// The cached context was staged against the previous device.
	if a.ctx != nil {
		a.ctx.release()
		a.ctx = nil
	}
	l := a.logger
	a.mu.Unlock()
	l.Info("accelerator adopted shared device")
	return nil
}

// CanAccelerate implements diffract.Accelerator. Convolution is the only
// claimed stage for now.
func (a *Accelerator) CanAccelerate(op diffract.AcceleratedOp) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.initialized && op == diffract.AccelConvolve
}

// Propagate implements diffract.Accelerator. Field propagation is not
// accelerated yet; the pipeline falls back to the CPU path.
func (a *Accelerator) Propagate(re, im []float64, n int, windowMM, lambdaMM, distMM float64) error {
	return diffract.ErrFallbackToCPU
}

// Convolve implements diffract.Accelerator. The channel and PSF are staged
// into the resolution-keyed context, then convolved.
func (a *Accelerator) Convolve(dst, src []float64, w, h int, psf []float64, n int) error {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return ErrNotInitialized
	}
	if a.ctx == nil || a.ctx.n != n {
		if a.ctx != nil {
			a.ctx.release()
		}
		a.ctx = newStageContext(n)
		a.logger.Debug("staging context rebuilt",
			"w", a.ctx.extent.Width, "h", a.ctx.extent.Height)
	}
	ctx := a.ctx
	a.mu.Unlock()

	return ctx.convolve(dst, src, w, h, psf, n)
}

// stageContext holds per-resolution staging state. One context serves one
// grid resolution; a resolution change rebuilds it.
type stageContext struct {
	n int

	// extent describes the PSF staging texture for the compute pass.
	extent gputypes.Extent3D

	strategy convolve.Strategy
}

func newStageContext(n int) *stageContext {
	return &stageContext{
		n: n,
		extent: gputypes.Extent3D{
			Width:              uint32(n),
			Height:             uint32(n),
			DepthOrArrayLayers: 1,
		},
	}
}

// convolve runs the shared CPU kernel against the staged buffers.
// TODO Phase 2: dispatch the frequency-domain kernel as a compute pass.
func (c *stageContext) convolve(dst, src []float64, w, h int, psf []float64, n int) error {
	if c.strategy == nil {
		c.strategy = convolve.Auto(psf, n)
	}
	return c.strategy.Convolve(dst, src, w, h, psf, n)
}

func (c *stageContext) release() {
	c.strategy = nil
}
