// Package grid holds the simulation grid geometry and the complex field
// buffer the propagator works on.
package grid

// MaxSide is the hard cap on grid resolution. Requests that would exceed it
// are silently clamped; memory and compute stay bounded.
const MaxSide = 2048

// MinSide is the starting grid resolution.
const MinSide = 256

// Grid relates simulation cells to physical distance at the aperture plane.
type Grid struct {
	// N is the side length in cells. Always a power of two in
	// [MinSide, MaxSide].
	N int

	// WindowMM is the physical side length of the simulated window.
	WindowMM float64

	// PxPerMM is N / WindowMM.
	PxPerMM float64
}

// Size picks the grid for a given physical window size and requested pixel
// density. The side starts at MinSide and doubles while the window, sampled
// at the requested density, would exceed it, capping at MaxSide.
func Size(windowMM, pxPerMM float64) Grid {
	n := MinSide
	for float64(n) < windowMM*pxPerMM && n < MaxSide {
		n *= 2
	}
	return Grid{N: n, WindowMM: windowMM, PxPerMM: float64(n) / windowMM}
}

// Center returns the cell index of the optical axis.
func (g Grid) Center() int { return g.N / 2 }

// CellMM returns the physical size of one cell.
func (g Grid) CellMM() float64 { return g.WindowMM / float64(g.N) }

// Field is a complex wavefront sampled over an N×N grid, stored as split
// real and imaginary arrays of length N². The propagator mutates a Field in
// place; a Field is owned by exactly one request.
type Field struct {
	N  int
	Re []float64
	Im []float64
}

// NewField allocates a zeroed N×N field.
func NewField(n int) *Field {
	return &Field{
		N:  n,
		Re: make([]float64, n*n),
		Im: make([]float64, n*n),
	}
}

// FieldFromMask initializes a field from a transmission mask: the mask
// amplitude becomes the real part, the imaginary part is zero.
func FieldFromMask(mask []float64, n int) *Field {
	f := NewField(n)
	copy(f.Re, mask)
	return f
}

// Intensity writes |field|² into dst, allocating when dst is nil or too
// small, and returns it along with the total energy.
func (f *Field) Intensity(dst []float64) ([]float64, float64) {
	if cap(dst) < len(f.Re) {
		dst = make([]float64, len(f.Re))
	}
	dst = dst[:len(f.Re)]
	total := 0.0
	for i := range f.Re {
		v := f.Re[i]*f.Re[i] + f.Im[i]*f.Im[i]
		dst[i] = v
		total += v
	}
	return dst, total
}
