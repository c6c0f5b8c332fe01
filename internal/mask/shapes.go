package mask

import (
	"math"

	"github.com/waveopt/diffract/aperture"
)

func drawSlit(c *canvas, d aperture.Descriptor) {
	w := c.minWidth(d.SlitWidthMM) / 2
	h := c.minWidth(d.SlitHeightMM) / 2
	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if math.Abs(x) <= w && math.Abs(y) <= h {
			return 1
		}
		return 0
	})
}

func drawCross(c *canvas, d aperture.Descriptor) {
	w := c.minWidth(d.SlitWidthMM) / 2
	h := c.minWidth(d.SlitHeightMM) / 2
	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if math.Abs(x) <= w && math.Abs(y) <= h {
			return 1
		}
		if math.Abs(y) <= w && math.Abs(x) <= h {
			return 1
		}
		return 0
	})
}

func drawGrating(c *canvas, d aperture.Descriptor) {
	n := d.Count
	if n < 1 {
		n = 1
	}
	w := c.minWidth(d.SlitWidthMM) / 2
	h := c.minWidth(d.SlitHeightMM) / 2
	pitch := d.SpreadMM
	span := float64(n-1) * pitch / 2
	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if math.Abs(y) > h {
			return 0
		}
		for i := 0; i < n; i++ {
			cx := float64(i)*pitch - span
			if math.Abs(x-cx) <= w {
				return 1
			}
		}
		return 0
	})
}

func drawAnnular(c *canvas, d aperture.Descriptor) {
	outer := d.DiameterMM / 2
	inner := d.InnerDiameterMM / 2
	if inner >= outer {
		return
	}
	// Keep the ring at least one minimum feature wide.
	if outer-inner < minFeatureCells*c.cell() {
		inner = math.Max(0, outer-minFeatureCells*c.cell())
	}
	in2, out2 := inner*inner, outer*outer
	c.each(func(x, y float64) float64 {
		r2 := x*x + y*y
		if r2 >= in2 && r2 <= out2 {
			return 1
		}
		return 0
	})
}

func drawStar(c *canvas, d aperture.Descriptor) {
	n := d.Count
	if n < 2 {
		n = 2
	}
	r := d.DiameterMM / 2
	r2 := r * r
	spokes := float64(n)
	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if x*x+y*y > r2 {
			return 0
		}
		theta := math.Atan2(y, x)
		// Spokes alternate open and closed wedges of equal width.
		phase := theta * spokes / (2 * math.Pi)
		phase -= math.Floor(phase)
		if phase < 0.5 {
			return 1
		}
		return 0
	})
}

func drawLitho(c *canvas, d aperture.Descriptor) {
	mainW := c.minWidth(d.DiameterMM) / 2
	h := c.minWidth(lithoBarHeight(d)) / 2
	assistW := c.minWidth(d.SlitWidthMM) / 2
	gap := d.SpreadMM

	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if math.Abs(y) > h {
			return 0
		}
		if math.Abs(x) <= mainW {
			return 1
		}
		// Assist bars flank the main feature symmetrically: the k-th bar
		// center sits one gap plus k-1 pitches beyond the main edge.
		ax := math.Abs(x) - mainW
		for k := 0; k < d.AssistCount; k++ {
			center := gap + float64(k)*(gap+2*assistW) + assistW
			if math.Abs(ax-center) <= assistW {
				return 1
			}
		}
		return 0
	})
}

func drawFreeform(c *canvas, d aperture.Descriptor) {
	if len(d.Path) == 0 || d.StrokeWidthMM <= 0 {
		return
	}
	if len(d.Path) == 1 {
		x, y := place(d.Path[0].X, d.Path[0].Y, d.RotationRad)
		c.fillCircle(x, y, d.StrokeWidthMM/2)
		return
	}
	for i := 1; i < len(d.Path); i++ {
		x0, y0 := place(d.Path[i-1].X, d.Path[i-1].Y, d.RotationRad)
		x1, y1 := place(d.Path[i].X, d.Path[i].Y, d.RotationRad)
		c.stroke(x0, y0, x1, y1, d.StrokeWidthMM)
	}
}
