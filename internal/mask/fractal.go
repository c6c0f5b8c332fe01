package mask

import (
	"math"

	"github.com/waveopt/diffract/aperture"
)

// maxFractalDepth caps recursive subdivision regardless of the requested
// iteration count.
const maxFractalDepth = 8

func fractalDepth(d aperture.Descriptor) int {
	depth := d.Iterations
	if depth < 0 {
		depth = 0
	}
	if depth > maxFractalDepth {
		depth = maxFractalDepth
	}
	return depth
}

// drawCarpet rasterizes a Sierpinski carpet: the full square is open, then
// the center cell of every 3×3 subdivision is punched closed, recursively.
// Membership is decided per pixel from the base-3 digits of its position
// (closed iff both digits are 1 at any subdivision level), which keeps the
// cost linear in depth instead of in hole count. Subdivision stops once a
// cell would fall under the minimum feature size.
func drawCarpet(c *canvas, d aperture.Descriptor) {
	side := d.DiameterMM
	half := side / 2
	depth := fractalDepth(d)
	minCell := minFeatureCells * c.cell()

	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if x < -half || x >= half || y < -half || y >= half {
			return 0
		}
		u := (x + half) / side
		v := (y + half) / side
		size := side
		for k := 0; k < depth; k++ {
			size /= 3
			if size < minCell {
				break
			}
			u *= 3
			v *= 3
			du, dv := int(u), int(v)
			if du == 1 && dv == 1 {
				return 0
			}
			u -= float64(du)
			v -= float64(dv)
		}
		return 1
	})
}

// drawSierpinski rasterizes a Sierpinski triangle by subdividing an
// equilateral triangle into its three corner children with an explicit
// stack, filling the leaves.
func drawSierpinski(c *canvas, d aperture.Descriptor) {
	side := d.DiameterMM
	if side <= 0 {
		return
	}
	depth := fractalDepth(d)
	minEdge := 2 * c.cell()

	h := side * math.Sqrt(3) / 2
	// Centroid at the origin.
	top := aperture.Point{X: 0, Y: 2 * h / 3}
	left := aperture.Point{X: -side / 2, Y: -h / 3}
	right := aperture.Point{X: side / 2, Y: -h / 3}

	type tri struct {
		a, b, c aperture.Point
		depth   int
	}
	mid := func(p, q aperture.Point) aperture.Point {
		return aperture.Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
	}
	edge := func(p, q aperture.Point) float64 {
		return math.Hypot(p.X-q.X, p.Y-q.Y)
	}

	stack := []tri{{top, left, right, depth}}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.depth <= 0 || edge(t.a, t.b) < minEdge {
			fillTriangle(c, t.a, t.b, t.c, d.RotationRad)
			continue
		}
		ab, bc, ca := mid(t.a, t.b), mid(t.b, t.c), mid(t.c, t.a)
		stack = append(stack,
			tri{t.a, ab, ca, t.depth - 1},
			tri{ab, t.b, bc, t.depth - 1},
			tri{ca, bc, t.c, t.depth - 1},
		)
	}
}

// fillTriangle opens a solid triangle given in shape-frame millimeters.
func fillTriangle(c *canvas, a, b, p aperture.Point, rot float64) {
	ax, ay := place(a.X, a.Y, rot)
	bx, by := place(b.X, b.Y, rot)
	cx, cy := place(p.X, p.Y, rot)

	cell := c.cell()
	half := float64(c.g.N) / 2
	minX := math.Min(ax, math.Min(bx, cx))
	maxX := math.Max(ax, math.Max(bx, cx))
	minY := math.Min(ay, math.Min(by, cy))
	maxY := math.Max(ay, math.Max(by, cy))

	x0 := int(math.Floor(minX/cell + half))
	x1 := int(math.Ceil(maxX/cell + half))
	y0 := int(math.Floor(minY/cell + half))
	y1 := int(math.Ceil(maxY/cell + half))

	// Signed edge functions; orientation-independent via two-sided test.
	area := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
	if area == 0 {
		return
	}
	for iy := y0; iy <= y1; iy++ {
		if iy < 0 || iy >= c.g.N {
			continue
		}
		y := (float64(iy) + 0.5 - half) * cell
		for ix := x0; ix <= x1; ix++ {
			if ix < 0 || ix >= c.g.N {
				continue
			}
			x := (float64(ix) + 0.5 - half) * cell
			w0 := (bx-ax)*(y-ay) - (by-ay)*(x-ax)
			w1 := (cx-bx)*(y-by) - (cy-by)*(x-bx)
			w2 := (ax-cx)*(y-cy) - (ay-cy)*(x-cx)
			if (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0) {
				c.open(ix, iy, 1)
			}
		}
	}
}
