package optics

import (
	"github.com/waveopt/diffract/internal/grid"
	"github.com/waveopt/diffract/internal/mask"
)

// PSF is a normalized point-spread function over its grid. After
// construction the intensity array sums to 1 within floating tolerance, so
// convolving with it conserves energy: aperture geometry redistributes
// sharpness, it never brightens or darkens the scene.
type PSF struct {
	Grid grid.Grid
	I    []float64
}

// FromField squares the propagated field into intensities and normalizes
// them. A zero-energy field (degenerate aperture) falls back to a unit
// delta at the grid center, turning the later convolution into a copy.
func FromField(f *grid.Field, g grid.Grid) *PSF {
	intensity, total := f.Intensity(nil)
	return normalize(intensity, total, g)
}

// FromMask builds a purely geometric PSF from the raw mask: the squared
// mask amplitude, normalized. This is the propagation bypass used when
// diffraction rendering is disabled.
func FromMask(m *mask.Mask) *PSF {
	intensity := make([]float64, len(m.T))
	total := 0.0
	for i, t := range m.T {
		v := t * t
		intensity[i] = v
		total += v
	}
	return normalize(intensity, total, m.Grid)
}

func normalize(intensity []float64, total float64, g grid.Grid) *PSF {
	if total <= 0 {
		for i := range intensity {
			intensity[i] = 0
		}
		intensity[g.Center()*g.N+g.Center()] = 1
		return &PSF{Grid: g, I: intensity}
	}
	inv := 1 / total
	for i := range intensity {
		intensity[i] *= inv
	}
	return &PSF{Grid: g, I: intensity}
}

// Sum returns the current intensity sum. Useful for verifying the
// normalization invariant.
func (p *PSF) Sum() float64 {
	s := 0.0
	for _, v := range p.I {
		s += v
	}
	return s
}
