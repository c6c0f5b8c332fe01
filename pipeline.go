package diffract

import (
	"fmt"
	"math"
	"sync"

	"github.com/waveopt/diffract/aperture"
	"github.com/waveopt/diffract/internal/convolve"
	"github.com/waveopt/diffract/internal/grid"
	"github.com/waveopt/diffract/internal/mask"
	"github.com/waveopt/diffract/internal/optics"
	"github.com/waveopt/diffract/internal/post"
)

// Request bundles everything one simulation needs. The pipeline never
// mutates the request; all working buffers are allocated per call.
type Request struct {
	Aperture aperture.Descriptor
	Camera   Camera
	Source   *Pixmap

	// Exposure scales the convolved result before tone mapping.
	// Zero means 1.
	Exposure float64

	Options Options
}

// Simulate runs the full optical pipeline: rasterize the aperture,
// propagate its wavefront to the sensor plane, normalize the PSF, convolve
// the source image per channel, and apply radiometric post-processing.
//
// Simulate is synchronous and safe for concurrent use; every call owns its
// buffers. A zero Exposure is treated as 1, so the zero Request value
// renders at unit exposure. Any panic inside the pipeline is caught and
// reported as an error — the host never terminates because a simulation
// failed.
func Simulate(req Request) (out *Pixmap, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("diffract: pipeline failure: %v", r)
		}
	}()

	if req.Source == nil || req.Source.Width() == 0 || req.Source.Height() == 0 {
		return nil, ErrNilSource
	}
	exposure := req.Exposure
	if exposure == 0 {
		exposure = 1
	}
	if exposure < 0 || math.IsNaN(exposure) || math.IsInf(exposure, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrBadExposure, req.Exposure)
	}

	origW, origH := req.Source.Width(), req.Source.Height()
	src := req.Source
	if limit := req.Options.maxImageDim(); limit > 0 && (origW > limit || origH > limit) {
		scale := float64(limit) / float64(max(origW, origH))
		src = src.Resized(
			max(1, int(float64(origW)*scale)),
			max(1, int(float64(origH)*scale)),
		)
		Logger().Debug("source downsampled",
			"from_w", origW, "from_h", origH,
			"to_w", src.Width(), "to_h", src.Height())
	}
	w, h := src.Width(), src.Height()

	// One wavelength per channel in polychromatic mode; a single shared
	// PSF otherwise.
	lambdas := channelWavelengths(req)
	psfs, err := buildPSFs(req, lambdas)
	if err != nil {
		return nil, err
	}

	r, g, b, a := src.channels()
	channels := [3][]float64{r, g, b}
	outCh := [3][]float64{
		make([]float64, w*h),
		make([]float64, w*h),
		make([]float64, w*h),
	}

	convolveChannel := func(i int) error {
		p := psfs[i]
		if err := applyPSF(outCh[i], channels[i], w, h, p, req.Options.Strategy); err != nil {
			return err
		}
		for j, v := range outCh[i] {
			outCh[i][j] = v * exposure
		}
		return nil
	}

	if req.Options.Parallel && req.Options.Polychromatic {
		var wg sync.WaitGroup
		errs := make([]error, 3)
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = convolveChannel(i)
			}(i)
		}
		wg.Wait()
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
	} else {
		for i := 0; i < 3; i++ {
			if err := convolveChannel(i); err != nil {
				return nil, err
			}
		}
	}

	for i := 0; i < 3; i++ {
		if !allFinite(outCh[i]) {
			return nil, fmt.Errorf("%w: channel %d after convolution", ErrNonFinite, i)
		}
	}

	// Radiometric finishing: vignette in linear light, noise, tone map,
	// gamma encode. Alpha is forced opaque.
	if req.Options.Vignetting && req.Camera.SensorWidthMM > 0 {
		pitchX := req.Camera.SensorWidthMM / float64(w)
		pitchY := pitchX
		if req.Camera.SensorHeightMM > 0 {
			pitchY = req.Camera.SensorHeightMM / float64(h)
		}
		post.Vignette(outCh[0], outCh[1], outCh[2], w, h, req.Camera.FocalLengthMM, pitchX, pitchY)
	}
	if req.Camera.ISO > post.BaseISO {
		noise := post.NewUniform(req.Aperture.Seed ^ 0x9e3779b9)
		post.AddNoise(outCh[0], outCh[1], outCh[2], a, req.Camera.ISO, noise)
	}

	result := NewPixmap(w, h)
	data := result.Data()
	for i := 0; i < w*h; i++ {
		data[i*4+0] = post.Encode(outCh[0][i])
		data[i*4+1] = post.Encode(outCh[1][i])
		data[i*4+2] = post.Encode(outCh[2][i])
		data[i*4+3] = 255
	}

	if req.Options.RestoreSize && (w != origW || h != origH) {
		result = result.Resized(origW, origH)
	}
	return result, nil
}

// channelWavelengths returns the per-channel wavelengths in millimeters.
func channelWavelengths(req Request) [3]float64 {
	if req.Options.Polychromatic {
		return [3]float64{
			nmToMM(WavelengthRedNM),
			nmToMM(WavelengthGreenNM),
			nmToMM(WavelengthBlueNM),
		}
	}
	mono := nmToMM(req.Camera.wavelengthNM())
	return [3]float64{mono, mono, mono}
}

// buildPSFs computes one PSF per channel. In monochrome mode the single
// PSF is computed once and shared: channel wavelengths are identical, so
// the shared buffer is read-only from there on.
func buildPSFs(req Request, lambdas [3]float64) ([3]*optics.PSF, error) {
	var psfs [3]*optics.PSF
	for i := 0; i < 3; i++ {
		if i > 0 && lambdas[i] == lambdas[i-1] {
			psfs[i] = psfs[i-1]
			continue
		}
		p, err := buildPSF(req, lambdas[i])
		if err != nil {
			return psfs, err
		}
		psfs[i] = p
	}
	return psfs, nil
}

func buildPSF(req Request, lambdaMM float64) (*optics.PSF, error) {
	m := mask.Rasterize(req.Aperture, lambdaMM, req.Camera.FocalLengthMM, req.Options.pixelDensity())
	Logger().Debug("mask rasterized",
		"kind", req.Aperture.Kind.String(),
		"grid", m.Grid.N,
		"window_mm", m.Grid.WindowMM)

	if req.Options.DisableDiffraction {
		return optics.FromMask(m), nil
	}

	f := grid.FieldFromMask(m.T, m.Grid.N)
	if err := propagate(f, m.Grid, lambdaMM, req.Camera.FocalLengthMM); err != nil {
		return nil, err
	}
	p := optics.FromField(f, m.Grid)
	if !allFinite(p.I) {
		return nil, fmt.Errorf("%w: PSF at wavelength %g mm", ErrNonFinite, lambdaMM)
	}
	return p, nil
}

// propagate advances the field, trying the registered accelerator first.
func propagate(f *grid.Field, g grid.Grid, lambdaMM, distMM float64) error {
	if a := RegisteredAccelerator(); a != nil && a.CanAccelerate(AccelPropagate) {
		err := a.Propagate(f.Re, f.Im, f.N, g.WindowMM, lambdaMM, distMM)
		if err == nil {
			return nil
		}
		Logger().Warn("accelerated propagation failed, using CPU",
			"accelerator", a.Name(), "err", err)
	}
	return optics.Propagate(f, g, lambdaMM, distMM)
}

// applyPSF convolves one channel, trying the registered accelerator first,
// then the selected CPU strategy.
func applyPSF(dst, src []float64, w, h int, p *optics.PSF, choice StrategyChoice) error {
	if a := RegisteredAccelerator(); a != nil && a.CanAccelerate(AccelConvolve) {
		err := a.Convolve(dst, src, w, h, p.I, p.Grid.N)
		if err == nil {
			return nil
		}
		Logger().Warn("accelerated convolution failed, using CPU",
			"accelerator", a.Name(), "err", err)
	}

	var s convolve.Strategy
	switch choice {
	case StrategySparse:
		s = &convolve.Sparse{}
	case StrategyFrequency:
		s = &convolve.Frequency{}
	default:
		s = convolve.Auto(p.I, p.Grid.N)
	}
	Logger().Debug("convolution strategy", "strategy", s.Name(), "grid", p.Grid.N)
	return s.Convolve(dst, src, w, h, p.I, p.Grid.N)
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// RenderMask rasterizes just the transmission mask of a descriptor into a
// grayscale pixmap, for preview or fabrication layers. The wavelength and
// focal length influence wavelength-dependent shapes (zone plates, sieves)
// exactly as they do in a full simulation.
func RenderMask(d aperture.Descriptor, cam Camera, density float64) *Pixmap {
	if density <= 0 {
		density = DefaultPixelDensity
	}
	m := mask.Rasterize(d, nmToMM(cam.wavelengthNM()), cam.FocalLengthMM, density)
	pm := NewPixmap(m.Grid.N, m.Grid.N)
	data := pm.Data()
	for i, t := range m.T {
		v := uint8(math.Round(t * 255))
		data[i*4+0] = v
		data[i*4+1] = v
		data[i*4+2] = v
		data[i*4+3] = 255
	}
	return pm
}
