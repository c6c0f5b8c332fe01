package grid

import (
	"math"
	"testing"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name     string
		windowMM float64
		pxPerMM  float64
		wantN    int
	}{
		{"small window stays at minimum", 1.0, 100, 256},
		{"just under min threshold", 2.5, 100, 256},
		{"doubles once", 3.0, 100, 512},
		{"doubles twice", 6.0, 100, 1024},
		{"doubles to cap", 15.0, 100, 2048},
		{"capped beyond 2048", 1000.0, 100, 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Size(tt.windowMM, tt.pxPerMM)
			if g.N != tt.wantN {
				t.Errorf("Size(%g, %g).N = %d, want %d", tt.windowMM, tt.pxPerMM, g.N, tt.wantN)
			}
			if g.WindowMM != tt.windowMM {
				t.Errorf("window changed: got %g, want %g", g.WindowMM, tt.windowMM)
			}
			wantScale := float64(g.N) / tt.windowMM
			if math.Abs(g.PxPerMM-wantScale) > 1e-12 {
				t.Errorf("PxPerMM = %g, want %g", g.PxPerMM, wantScale)
			}
		})
	}
}

func TestGridHelpers(t *testing.T) {
	g := Grid{N: 512, WindowMM: 4, PxPerMM: 128}
	if g.Center() != 256 {
		t.Errorf("Center() = %d, want 256", g.Center())
	}
	if got := g.CellMM(); math.Abs(got-4.0/512) > 1e-15 {
		t.Errorf("CellMM() = %g, want %g", got, 4.0/512)
	}
}

func TestFieldFromMask(t *testing.T) {
	mask := []float64{0, 0.5, 1, 0}
	f := FieldFromMask(mask, 2)
	for i, want := range mask {
		if f.Re[i] != want {
			t.Errorf("Re[%d] = %g, want %g", i, f.Re[i], want)
		}
		if f.Im[i] != 0 {
			t.Errorf("Im[%d] = %g, want 0", i, f.Im[i])
		}
	}
}

func TestFieldIntensity(t *testing.T) {
	f := NewField(2)
	f.Re[0] = 3
	f.Im[0] = 4
	f.Re[3] = 1

	intensity, total := f.Intensity(nil)
	if intensity[0] != 25 {
		t.Errorf("intensity[0] = %g, want 25", intensity[0])
	}
	if intensity[3] != 1 {
		t.Errorf("intensity[3] = %g, want 1", intensity[3])
	}
	if total != 26 {
		t.Errorf("total = %g, want 26", total)
	}
}
