// Package mask rasterizes aperture descriptors into transmission masks.
//
// A transmission mask is a square grid of values in [0, 1] (1 = fully open)
// centered on the optical axis. The grid side and physical window are chosen
// per descriptor so that neither the shape geometry nor its diffraction
// spread is clipped; see SizeWindow.
package mask

import (
	"math"

	"github.com/waveopt/diffract/aperture"
	"github.com/waveopt/diffract/internal/grid"
)

// diffractionMargin scales the λ·f/feature diffraction spread estimate into
// a window size that keeps the diffracted orders inside the simulation.
const diffractionMargin = 40.0

// geometryMargin pads the shape extent so hard mask edges stay away from the
// periodic FFT boundary.
const geometryMargin = 1.5

// minFeatureCells is the enforced minimum feature size in grid cells. Thin
// features are widened to this rather than vanishing under rasterization.
const minFeatureCells = 1.5

// Mask is a rasterized transmission mask over its grid.
type Mask struct {
	Grid grid.Grid
	T    []float64
}

// Rasterize draws the descriptor onto a freshly sized grid.
//
// A descriptor with non-positive required fields (zero diameter, zero stroke
// width, ...) yields a fully closed mask on a default grid rather than an
// error; downstream the PSF normalizer turns that into an identity kernel.
func Rasterize(d aperture.Descriptor, lambdaMM, focalMM, density float64) *Mask {
	windowMM, ok := SizeWindow(d, lambdaMM, focalMM)
	if !ok {
		g := grid.Size(1.0, density)
		return &Mask{Grid: g, T: make([]float64, g.N*g.N)}
	}

	g := grid.Size(windowMM, density)
	m := &Mask{Grid: g, T: make([]float64, g.N*g.N)}
	c := &canvas{g: g, t: m.T}

	switch d.Kind {
	case aperture.Pinhole:
		c.fillCircle(0, 0, d.DiameterMM/2)
	case aperture.Slit:
		drawSlit(c, d)
	case aperture.Cross:
		drawCross(c, d)
	case aperture.Grating:
		drawGrating(c, d)
	case aperture.ZonePlate:
		drawZonePlate(c, d, lambdaMM, focalMM)
	case aperture.PhotonSieve:
		drawPhotonSieve(c, d, lambdaMM, focalMM)
	case aperture.Annular:
		drawAnnular(c, d)
	case aperture.Star:
		drawStar(c, d)
	case aperture.MultiDot:
		drawMultiDot(c, d)
	case aperture.Fibonacci:
		drawFibonacci(c, d)
	case aperture.Carpet:
		drawCarpet(c, d)
	case aperture.Sierpinski:
		drawSierpinski(c, d)
	case aperture.Coded:
		drawCoded(c, d)
	case aperture.Litho:
		drawLitho(c, d)
	case aperture.Freeform:
		drawFreeform(c, d)
	case aperture.Bitmap:
		drawBitmap(c, d)
	case aperture.Curve:
		drawCurve(c, d)
	}
	return m
}

// SizeWindow computes the physical simulation window for a descriptor:
// the larger of the padded shape extent and the diffraction-driven spread
// margin·λ·f/featureSize. The second result is false for degenerate
// descriptors (non-positive feature size or extent, or a non-finite window).
func SizeWindow(d aperture.Descriptor, lambdaMM, focalMM float64) (float64, bool) {
	feat := FeatureSize(d)
	ext := Extent(d)
	if feat <= 0 || ext <= 0 {
		return 0, false
	}
	w := math.Max(geometryMargin*ext, diffractionMargin*lambdaMM*focalMM/feat)
	if !(w > 0) || math.IsInf(w, 0) {
		return 0, false
	}
	return w, true
}

// FeatureSize returns the characteristic minimum feature of the shape in
// millimeters: the slit or stroke width for line-like shapes, the cell pitch
// for coded apertures, the main feature width for litho shapes, otherwise
// the overall diameter.
func FeatureSize(d aperture.Descriptor) float64 {
	switch d.Kind {
	case aperture.Slit, aperture.Cross, aperture.Grating:
		return d.SlitWidthMM
	case aperture.Freeform, aperture.Curve:
		return d.StrokeWidthMM
	case aperture.Coded:
		if d.Rank <= 0 {
			return 0
		}
		return d.DiameterMM / float64(d.Rank)
	case aperture.Litho:
		return d.DiameterMM
	default:
		return d.DiameterMM
	}
}

// Extent returns the overall physical extent of the shape in millimeters,
// accounting for multi-element layouts.
func Extent(d aperture.Descriptor) float64 {
	switch d.Kind {
	case aperture.Slit:
		return math.Max(d.SlitWidthMM, d.SlitHeightMM)
	case aperture.Cross:
		return math.Max(d.SlitWidthMM, d.SlitHeightMM)
	case aperture.Grating:
		n := d.Count
		if n < 1 {
			n = 1
		}
		span := float64(n-1)*d.SpreadMM + d.SlitWidthMM
		return math.Max(span, d.SlitHeightMM)
	case aperture.MultiDot:
		return 2*d.SpreadMM + d.DiameterMM
	case aperture.Litho:
		span := d.DiameterMM + 2*float64(d.AssistCount)*(d.SlitWidthMM+d.SpreadMM)
		return math.Max(span, lithoBarHeight(d))
	case aperture.Freeform:
		return pathExtent(d)
	default:
		return d.DiameterMM
	}
}

func pathExtent(d aperture.Descriptor) float64 {
	if len(d.Path) == 0 {
		return 0
	}
	max := 0.0
	for _, p := range d.Path {
		if r := math.Hypot(p.X, p.Y); r > max {
			max = r
		}
	}
	return 2*max + d.StrokeWidthMM
}

func lithoBarHeight(d aperture.Descriptor) float64 {
	if d.SlitHeightMM > 0 {
		return d.SlitHeightMM
	}
	return 5 * d.DiameterMM
}
