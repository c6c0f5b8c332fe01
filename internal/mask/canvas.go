package mask

import (
	"math"

	"github.com/waveopt/diffract/internal/grid"
)

// canvas wraps a mask buffer with drawing primitives. Coordinates are in
// millimeters with the origin at the grid center; positive y is up.
type canvas struct {
	g grid.Grid
	t []float64
}

// cell returns the physical size of one grid cell.
func (c *canvas) cell() float64 { return c.g.CellMM() }

// minWidth clamps a feature width to the enforced minimum.
func (c *canvas) minWidth(w float64) float64 {
	return math.Max(w, minFeatureCells*c.cell())
}

// minRadius clamps a circle radius to half the enforced minimum width.
func (c *canvas) minRadius(r float64) float64 {
	return math.Max(r, minFeatureCells*c.cell()/2)
}

// coord returns the physical coordinate of a cell center.
func (c *canvas) coord(ix, iy int) (x, y float64) {
	cell := c.cell()
	half := float64(c.g.N) / 2
	return (float64(ix) + 0.5 - half) * cell, (float64(iy) + 0.5 - half) * cell
}

// open marks a cell with the given transmission, keeping the maximum of the
// existing and new values so overlapping elements never darken each other.
func (c *canvas) open(ix, iy int, v float64) {
	if ix < 0 || ix >= c.g.N || iy < 0 || iy >= c.g.N {
		return
	}
	i := iy*c.g.N + ix
	if v > c.t[i] {
		c.t[i] = v
	}
}

// each evaluates fn at every cell center and stores the returned
// transmission, clamped to [0, 1]. Used by analytic per-pixel shapes.
func (c *canvas) each(fn func(x, y float64) float64) {
	cell := c.cell()
	half := float64(c.g.N) / 2
	for iy := 0; iy < c.g.N; iy++ {
		y := (float64(iy) + 0.5 - half) * cell
		row := iy * c.g.N
		for ix := 0; ix < c.g.N; ix++ {
			x := (float64(ix) + 0.5 - half) * cell
			v := fn(x, y)
			if v <= 0 {
				continue
			}
			if v > 1 {
				v = 1
			}
			if v > c.t[row+ix] {
				c.t[row+ix] = v
			}
		}
	}
}

// fillCircle opens a solid circle, enforcing the minimum radius.
func (c *canvas) fillCircle(cx, cy, r float64) {
	if r < 0 {
		return
	}
	r = c.minRadius(r)
	cell := c.cell()
	half := float64(c.g.N) / 2

	x0 := int(math.Floor((cx-r)/cell + half))
	x1 := int(math.Ceil((cx+r)/cell + half))
	y0 := int(math.Floor((cy-r)/cell + half))
	y1 := int(math.Ceil((cy+r)/cell + half))

	r2 := r * r
	for iy := y0; iy <= y1; iy++ {
		if iy < 0 || iy >= c.g.N {
			continue
		}
		y := (float64(iy)+0.5-half)*cell - cy
		for ix := x0; ix <= x1; ix++ {
			if ix < 0 || ix >= c.g.N {
				continue
			}
			x := (float64(ix)+0.5-half)*cell - cx
			if x*x+y*y <= r2 {
				c.open(ix, iy, 1)
			}
		}
	}
}

// stroke opens a round-capped line segment of the given width by stamping
// circles at sub-cell steps.
func (c *canvas) stroke(x0, y0, x1, y1, width float64) {
	r := c.minRadius(width / 2)
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	step := c.cell() / 2
	n := int(length/step) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		c.fillCircle(x0+t*dx, y0+t*dy, r)
	}
}

// rotate maps a sample point into the frame of a shape rotated by rot:
// the point is rotated by -rot about the origin.
func rotate(x, y, rot float64) (float64, float64) {
	if rot == 0 {
		return x, y
	}
	s, cs := math.Sincos(-rot)
	return x*cs - y*s, x*s + y*cs
}

// place rotates a shape-frame point by +rot into grid coordinates.
func place(x, y, rot float64) (float64, float64) {
	if rot == 0 {
		return x, y
	}
	s, cs := math.Sincos(rot)
	return x*cs - y*s, x*s + y*cs
}
