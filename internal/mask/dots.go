package mask

import (
	"math"

	"github.com/waveopt/diffract/aperture"
)

// goldenAngle is π(3−√5), the angular step of a Fibonacci spiral.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

func drawMultiDot(c *canvas, d aperture.Descriptor) {
	n := d.Count
	if n < 1 {
		n = 1
	}
	dotR := d.DiameterMM / 2
	spread := d.SpreadMM

	stamp := func(x, y float64) {
		x, y = place(x, y, d.RotationRad)
		c.fillCircle(x, y, dotR)
	}

	switch d.Pattern {
	case aperture.PatternGrid:
		side := int(math.Ceil(math.Sqrt(float64(n))))
		pitch := 2 * spread / math.Max(1, float64(side-1))
		placed := 0
		for row := 0; row < side && placed < n; row++ {
			for col := 0; col < side && placed < n; col++ {
				x := float64(col)*pitch - spread
				y := float64(row)*pitch - spread
				stamp(x, y)
				placed++
			}
		}

	case aperture.PatternConcentric:
		rings := int(math.Sqrt(float64(n)))
		if rings < 1 {
			rings = 1
		}
		inner := d.InnerDiameterMM / 2
		per := n / rings
		if per < 1 {
			per = 1
		}
		for ring := 0; ring < rings; ring++ {
			r := inner
			if rings > 1 {
				r = inner + (spread-inner)*float64(ring)/float64(rings-1)
			}
			for i := 0; i < per; i++ {
				theta := 2 * math.Pi * float64(i) / float64(per)
				// Stagger alternate rings by half a step.
				if ring%2 == 1 {
					theta += math.Pi / float64(per)
				}
				stamp(r*math.Cos(theta), r*math.Sin(theta))
			}
		}

	case aperture.PatternRandom:
		rng := newLCG(d.Seed)
		for i := 0; i < n; i++ {
			r := spread * math.Sqrt(rng.float64())
			theta := 2 * math.Pi * rng.float64()
			stamp(r*math.Cos(theta), r*math.Sin(theta))
		}

	case aperture.PatternLine:
		if n == 1 {
			stamp(0, 0)
			break
		}
		for i := 0; i < n; i++ {
			x := -spread + 2*spread*float64(i)/float64(n-1)
			stamp(x, 0)
		}

	default: // PatternRing
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			stamp(spread*math.Cos(theta), spread*math.Sin(theta))
		}
	}
}

func drawFibonacci(c *canvas, d aperture.Descriptor) {
	n := d.Count
	if n < 1 {
		n = 1
	}
	maxR := d.DiameterMM / 2
	// Dot size tracks the mean point spacing so the spiral stays resolved
	// at any count.
	dotR := 0.3 * maxR / math.Sqrt(float64(n))

	for i := 0; i < n; i++ {
		r := maxR * math.Sqrt(float64(i)/float64(n))
		theta := float64(i) * goldenAngle
		x, y := place(r*math.Cos(theta), r*math.Sin(theta), d.RotationRad)
		c.fillCircle(x, y, dotR)
	}
}
