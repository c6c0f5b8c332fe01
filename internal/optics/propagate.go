// Package optics advances wavefronts from the aperture plane to the sensor
// plane and derives point-spread functions from them.
package optics

import (
	"math"

	"github.com/waveopt/diffract/internal/fft"
	"github.com/waveopt/diffract/internal/grid"
)

// Propagate advances the field by distMM using the angular spectrum method:
// transform to the spatial-frequency domain, multiply each component by the
// free-space transfer function, transform back. The field is mutated in
// place.
//
// Propagating components (1−(λfx)²−(λfy)² ≥ 0) pick up the phase
// exp(i·k·z·sqrt(·)); evanescent components decay as exp(−k·z·sqrt(−·))
// with no phase rotation.
func Propagate(f *grid.Field, g grid.Grid, lambdaMM, distMM float64) error {
	plan, err := fft.NewPlan(f.N)
	if err != nil {
		return err
	}

	plan.Forward2D(f.Re, f.Im)
	fft.Shift2D(f.Re, f.Im, f.N)
	applyTransfer(f, g, lambdaMM, distMM)
	fft.Shift2D(f.Re, f.Im, f.N)
	plan.Inverse2D(f.Re, f.Im)
	return nil
}

func applyTransfer(f *grid.Field, g grid.Grid, lambdaMM, distMM float64) {
	n := f.N
	dk := 1.0 / g.WindowMM
	k := 2 * math.Pi / lambdaMM
	half := n / 2

	for iy := 0; iy < n; iy++ {
		fy := float64(iy-half) * dk
		ly := lambdaMM * fy
		row := iy * n
		for ix := 0; ix < n; ix++ {
			fx := float64(ix-half) * dk
			lx := lambdaMM * fx
			val := 1 - lx*lx - ly*ly

			i := row + ix
			re, im := f.Re[i], f.Im[i]
			if val >= 0 {
				s, c := math.Sincos(k * distMM * math.Sqrt(val))
				f.Re[i] = re*c - im*s
				f.Im[i] = re*s + im*c
			} else {
				a := math.Exp(-k * distMM * math.Sqrt(-val))
				f.Re[i] = re * a
				f.Im[i] = im * a
			}
		}
	}
}
