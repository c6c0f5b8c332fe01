package mask

import (
	"math"

	"github.com/waveopt/diffract/aperture"
)

// sieveHoleFactor is the hole-diameter-to-zone-width ratio that maximizes
// the contribution of a sieve hole to the focal amplitude.
const sieveHoleFactor = 1.53

// zoneRadius returns the outer radius of Fresnel zone n: sqrt(n·λ·f).
func zoneRadius(n int, lambdaMM, focalMM float64) float64 {
	return math.Sqrt(float64(n) * lambdaMM * focalMM)
}

// plateRadius bounds a zone plate by its diameter and, when set, its zone
// count.
func plateRadius(d aperture.Descriptor, lambdaMM, focalMM float64) float64 {
	r := d.DiameterMM / 2
	if d.Zones > 0 {
		if zr := zoneRadius(d.Zones, lambdaMM, focalMM); zr < r {
			r = zr
		}
	}
	return r
}

func drawZonePlate(c *canvas, d aperture.Descriptor, lambdaMM, focalMM float64) {
	if lambdaMM <= 0 || focalMM <= 0 {
		return
	}
	rmax := plateRadius(d, lambdaMM, focalMM)
	rmax2 := rmax * rmax
	lf := lambdaMM * focalMM

	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		r2 := x*x + y*y
		if r2 > rmax2 {
			return 0
		}
		switch d.Profile {
		case aperture.ProfileSinusoidal:
			return (1 + math.Cos(math.Pi*r2/lf)) / 2
		case aperture.ProfileSpiral:
			theta := math.Atan2(y, x)
			return (1 + math.Cos(math.Pi*r2/lf+theta)) / 2
		default:
			// Binary: open even zones, the central zone included.
			if int(r2/lf)%2 == 0 {
				return 1
			}
			return 0
		}
	})
}

func drawPhotonSieve(c *canvas, d aperture.Descriptor, lambdaMM, focalMM float64) {
	if lambdaMM <= 0 || focalMM <= 0 {
		return
	}
	rmax := plateRadius(d, lambdaMM, focalMM)
	rng := newLCG(d.Seed)

	// Holes live on the odd zones, in phase with the open central zone of
	// the matching binary plate. Zone n spans [r(n-1), r(n)]; the central
	// zone is a single hole on the axis.
	c.fillCircle(0, 0, sieveHoleFactor*zoneRadius(1, lambdaMM, focalMM)/2)
	for n := 3; ; n += 2 {
		rIn := zoneRadius(n-1, lambdaMM, focalMM)
		rOut := zoneRadius(n, lambdaMM, focalMM)
		if rIn >= rmax {
			break
		}
		ring := (rIn + rOut) / 2
		width := rOut - rIn
		holeR := sieveHoleFactor * width / 2

		count := int(2 * math.Pi * ring / (2.2 * holeR))
		if count < 1 {
			count = 1
		}
		// Bounded angular jitter keeps the ring statistics but breaks the
		// regular sampling pattern.
		jitter := math.Pi / float64(count) * 0.6
		for i := 0; i < count; i++ {
			theta := 2*math.Pi*float64(i)/float64(count) + rng.symmetric()*jitter
			x, y := place(ring*math.Cos(theta), ring*math.Sin(theta), d.RotationRad)
			c.fillCircle(x, y, holeR)
		}
	}
}
