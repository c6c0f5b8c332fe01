package mask

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/waveopt/diffract/aperture"
)

// halfWhite builds a bitmap whose left half is white and right half black.
func halfWhite(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func TestBitmapThreshold(t *testing.T) {
	d := aperture.Descriptor{
		Kind: aperture.Bitmap, DiameterMM: 2, Mask: halfWhite(32, 32),
	}
	m := Rasterize(d, lambda550, focal50, density)

	probe := func(xmm float64) float64 {
		ix := int(xmm*m.Grid.PxPerMM + float64(m.Grid.N)/2)
		return m.T[m.Grid.Center()*m.Grid.N+ix]
	}
	if v := probe(-0.5); v != 1 {
		t.Errorf("white half closed (%g)", v)
	}
	if v := probe(0.5); v != 0 {
		t.Errorf("black half open (%g)", v)
	}
	if v := probe(1.5); v != 0 {
		t.Errorf("outside bitmap open (%g)", v)
	}
}

func TestBitmapInvert(t *testing.T) {
	d := aperture.Descriptor{
		Kind: aperture.Bitmap, DiameterMM: 2, Mask: halfWhite(32, 32),
		Invert: true,
	}
	m := Rasterize(d, lambda550, focal50, density)

	ix := int(-0.5*m.Grid.PxPerMM + float64(m.Grid.N)/2)
	if v := m.T[m.Grid.Center()*m.Grid.N+ix]; v != 0 {
		t.Errorf("inverted white half open (%g)", v)
	}
	ix = int(0.5*m.Grid.PxPerMM + float64(m.Grid.N)/2)
	if v := m.T[m.Grid.Center()*m.Grid.N+ix]; v != 1 {
		t.Errorf("inverted black half closed (%g)", v)
	}
}

func TestBitmapVerticalFlip(t *testing.T) {
	// Top image row maps to positive y in shape space.
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	img.SetGray(4, 0, color.Gray{Y: 255}) // top row of the image

	d := aperture.Descriptor{Kind: aperture.Bitmap, DiameterMM: 2, Mask: img}
	m := Rasterize(d, lambda550, focal50, density)

	c := m.Grid.Center()
	top, bottom := 0, 0
	for iy := 0; iy < m.Grid.N; iy++ {
		for ix := 0; ix < m.Grid.N; ix++ {
			if m.T[iy*m.Grid.N+ix] == 0 {
				continue
			}
			if iy >= c {
				top++ // grid rows above center hold positive y
			} else {
				bottom++
			}
		}
	}
	if top == 0 || bottom != 0 {
		t.Errorf("open cells top=%d bottom=%d, want all in positive y", top, bottom)
	}
}

func TestBitmapNilImageIsClosed(t *testing.T) {
	d := aperture.Descriptor{Kind: aperture.Bitmap, DiameterMM: 2}
	m := Rasterize(d, lambda550, focal50, density)
	if openCount(m) != 0 {
		t.Errorf("nil bitmap has %d open cells", openCount(m))
	}
}

func TestCurveKinds(t *testing.T) {
	tests := []struct {
		name string
		d    aperture.Descriptor
	}{
		{
			"lissajous defaults",
			aperture.Descriptor{Kind: aperture.Curve, DiameterMM: 2, StrokeWidthMM: 0.05},
		},
		{
			"spiral",
			aperture.Descriptor{
				Kind: aperture.Curve, CurveKind: aperture.Spiral,
				DiameterMM: 2, StrokeWidthMM: 0.05, CurveA: 4,
			},
		},
		{
			"rosette",
			aperture.Descriptor{
				Kind: aperture.Curve, CurveKind: aperture.Rosette,
				DiameterMM: 2, StrokeWidthMM: 0.05, CurveA: 5,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Rasterize(tt.d, lambda550, focal50, density)
			if openCount(m) == 0 {
				t.Fatal("curve rasterized fully closed")
			}
			// The stroke stays inside the curve's bounding square
			// (corner distance r·√2) plus the stroke allowance.
			limit := math.Sqrt2 + tt.d.StrokeWidthMM + m.Grid.CellMM()
			c := m.Grid.Center()
			for iy := 0; iy < m.Grid.N; iy++ {
				for ix := 0; ix < m.Grid.N; ix++ {
					if m.T[iy*m.Grid.N+ix] == 0 {
						continue
					}
					x := (float64(ix) + 0.5 - float64(c)) * m.Grid.CellMM()
					y := (float64(iy) + 0.5 - float64(c)) * m.Grid.CellMM()
					if x*x+y*y > limit*limit {
						t.Fatalf("open cell at (%g, %g) beyond %g", x, y, limit)
					}
				}
			}
		})
	}
}

func TestFreeformPath(t *testing.T) {
	d := aperture.Descriptor{
		Kind:          aperture.Freeform,
		StrokeWidthMM: 0.1,
		Path: []aperture.Point{
			{X: -0.5, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 0.5},
		},
	}
	m := Rasterize(d, lambda550, focal50, density)
	if openCount(m) == 0 {
		t.Fatal("path rasterized fully closed")
	}

	// The path midpoint must be open, a far corner closed.
	c := m.Grid.Center()
	if v := m.T[c*m.Grid.N+c]; v != 1 {
		t.Errorf("path midpoint closed (%g)", v)
	}
	if v := m.T[0]; v != 0 {
		t.Errorf("grid corner open (%g)", v)
	}
}

func TestFreeformSinglePoint(t *testing.T) {
	d := aperture.Descriptor{
		Kind:          aperture.Freeform,
		StrokeWidthMM: 0.2,
		Path:          []aperture.Point{{X: 0, Y: 0}},
	}
	m := Rasterize(d, lambda550, focal50, density)
	c := m.Grid.Center()
	if v := m.T[c*m.Grid.N+c]; v != 1 {
		t.Errorf("single point center closed (%g)", v)
	}
}
