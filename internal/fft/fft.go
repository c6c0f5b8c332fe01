// Package fft provides square power-of-two 2D Fourier transforms for the
// simulation pipeline.
//
// The 1D passes are delegated to gonum's CmplxFFT. Gonum transforms are
// unnormalized, so a forward/inverse round trip multiplies every sample by N
// per pass; Inverse2D divides by N once per dimension to restore the
// conventional contract (Forward2D followed by Inverse2D is the identity).
package fft

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrNotPowerOfTwo is returned when a plan is requested for a side length
// that is not a power of two.
var ErrNotPowerOfTwo = errors.New("fft: grid side must be a power of two")

// Plan holds the precomputed twiddle factors and scratch storage for
// transforming an N×N grid. A Plan is not safe for concurrent use; each
// simulation request builds its own.
type Plan struct {
	n   int
	fft *fourier.CmplxFFT
	row []complex128
	col []complex128
}

// NewPlan creates a transform plan for an n×n grid.
// n must be a power of two.
func NewPlan(n int) (*Plan, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, n)
	}
	return &Plan{
		n:   n,
		fft: fourier.NewCmplxFFT(n),
		row: make([]complex128, n),
		col: make([]complex128, n),
	}, nil
}

// N returns the side length the plan was built for.
func (p *Plan) N() int { return p.n }

// Forward2D computes the in-place forward 2D transform of the n×n grid held
// in the split re/im arrays (row-major, length n²).
func (p *Plan) Forward2D(re, im []float64) {
	p.transform2D(re, im, true)
}

// Inverse2D computes the in-place inverse 2D transform, including the 1/N
// scaling per dimension (1/N² overall), so that Forward2D followed by
// Inverse2D reproduces the input.
func (p *Plan) Inverse2D(re, im []float64) {
	p.transform2D(re, im, false)
	scale := 1.0 / float64(p.n*p.n)
	for i := range re {
		re[i] *= scale
		im[i] *= scale
	}
}

func (p *Plan) transform2D(re, im []float64, forward bool) {
	n := p.n

	// Rows.
	for y := 0; y < n; y++ {
		base := y * n
		for x := 0; x < n; x++ {
			p.row[x] = complex(re[base+x], im[base+x])
		}
		if forward {
			p.fft.Coefficients(p.row, p.row)
		} else {
			p.fft.Sequence(p.row, p.row)
		}
		for x := 0; x < n; x++ {
			re[base+x] = real(p.row[x])
			im[base+x] = imag(p.row[x])
		}
	}

	// Columns.
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			i := y*n + x
			p.col[y] = complex(re[i], im[i])
		}
		if forward {
			p.fft.Coefficients(p.col, p.col)
		} else {
			p.fft.Sequence(p.col, p.col)
		}
		for y := 0; y < n; y++ {
			i := y*n + x
			re[i] = real(p.col[y])
			im[i] = imag(p.col[y])
		}
	}
}

// Shift2D swaps the quadrants of an n×n grid in place so that the zero
// frequency moves between the corner and the center. For even n the shift is
// its own inverse.
func Shift2D(re, im []float64, n int) {
	h := n / 2
	for y := 0; y < h; y++ {
		for x := 0; x < n; x++ {
			// Swap (x, y) with ((x+h) mod n, y+h).
			xx := x + h
			if xx >= n {
				xx -= n
			}
			i := y*n + x
			j := (y+h)*n + xx
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
}
