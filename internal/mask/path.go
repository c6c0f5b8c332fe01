package mask

import (
	"image/color"
	"math"

	"github.com/waveopt/diffract/aperture"
)

// curveSamples is the parameter resolution used when tracing parametric
// curves. Adjacent samples are closer than half a grid cell at every
// supported resolution, so the stroke stays gap-free.
const curveSamples = 4096

func drawCurve(c *canvas, d aperture.Descriptor) {
	r := d.DiameterMM / 2
	if r <= 0 || d.StrokeWidthMM <= 0 {
		return
	}
	strokeR := c.minRadius(d.StrokeWidthMM / 2)

	a := d.CurveA
	if a <= 0 {
		a = 3
	}
	b := d.CurveB
	if b <= 0 {
		b = 2
	}

	point := func(t float64) (float64, float64) {
		switch d.CurveKind {
		case aperture.Spiral:
			// Archimedean spiral with CurveA turns.
			theta := 2 * math.Pi * a * t
			return r * t * math.Cos(theta), r * t * math.Sin(theta)
		case aperture.Rosette:
			// r = cos(k·θ) rosette with CurveA petals.
			theta := 2 * math.Pi * t
			rr := r * math.Cos(a*theta)
			return rr * math.Cos(theta), rr * math.Sin(theta)
		default:
			// Lissajous with frequencies CurveA, CurveB and phase offset.
			return r * math.Sin(2*math.Pi*a*t+d.CurvePhase),
				r * math.Sin(2*math.Pi*b*t)
		}
	}

	px, py := point(0)
	for i := 1; i <= curveSamples; i++ {
		x, y := point(float64(i) / curveSamples)
		x0, y0 := place(px, py, d.RotationRad)
		x1, y1 := place(x, y, d.RotationRad)
		c.stroke(x0, y0, x1, y1, 2*strokeR)
		px, py = x, y
	}
}

func drawBitmap(c *canvas, d aperture.Descriptor) {
	if d.Mask == nil || d.DiameterMM <= 0 {
		return
	}
	bounds := d.Mask.Bounds()
	bw, bh := bounds.Dx(), bounds.Dy()
	if bw == 0 || bh == 0 {
		return
	}
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = 0.5
	}

	// The bitmap's longer edge maps to the descriptor diameter; pixels are
	// kept square.
	longEdge := bw
	if bh > longEdge {
		longEdge = bh
	}
	pxMM := d.DiameterMM / float64(longEdge)
	halfW := float64(bw) * pxMM / 2
	halfH := float64(bh) * pxMM / 2

	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if x < -halfW || x >= halfW || y < -halfH || y >= halfH {
			return 0
		}
		bx := bounds.Min.X + int((x+halfW)/pxMM)
		// Image rows grow downward; flip y.
		by := bounds.Min.Y + bh - 1 - int((y+halfH)/pxMM)
		if bx < bounds.Min.X || bx >= bounds.Max.X || by < bounds.Min.Y || by >= bounds.Max.Y {
			return 0
		}
		open := luminance(d.Mask.At(bx, by)) >= threshold
		if d.Invert {
			open = !open
		}
		if open {
			return 1
		}
		return 0
	})
}

// luminance returns the Rec. 601 luma of a color in [0, 1].
func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535
}
