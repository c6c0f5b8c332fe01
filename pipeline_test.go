package diffract

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/waveopt/diffract/aperture"
)

func aperturePinhole() aperture.Descriptor {
	return aperture.Descriptor{Kind: aperture.Pinhole, DiameterMM: 0.3}
}

// grayPixmap returns a w×h opaque pixmap with every channel set to v.
func grayPixmap(w, h int, v uint8) *Pixmap {
	p := NewPixmap(w, h)
	d := p.Data()
	for i := 0; i < w*h; i++ {
		d[i*4+0] = v
		d[i*4+1] = v
		d[i*4+2] = v
		d[i*4+3] = 255
	}
	return p
}

func TestSimulateRejectsNilSource(t *testing.T) {
	_, err := Simulate(Request{Aperture: aperturePinhole(), Camera: Camera{FocalLengthMM: 50}})
	if !errors.Is(err, ErrNilSource) {
		t.Errorf("err = %v, want ErrNilSource", err)
	}

	_, err = Simulate(Request{Source: NewPixmap(0, 0)})
	if !errors.Is(err, ErrNilSource) {
		t.Errorf("empty source: err = %v, want ErrNilSource", err)
	}
}

func TestSimulateRejectsBadExposure(t *testing.T) {
	tests := []struct {
		name     string
		exposure float64
	}{
		{"negative", -1},
		{"NaN", math.NaN()},
		{"Inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{
				Aperture: aperturePinhole(),
				Camera:   Camera{FocalLengthMM: 50},
				Source:   grayPixmap(8, 8, 100),
				Exposure: tt.exposure,
			}
			_, err := Simulate(req)
			if !errors.Is(err, ErrBadExposure) {
				t.Errorf("err = %v, want ErrBadExposure", err)
			}
		})
	}
}

func TestSimulateGeometricSmoke(t *testing.T) {
	resetAccelerator()

	req := Request{
		Aperture: aperturePinhole(),
		Camera:   Camera{FocalLengthMM: 50},
		Source:   grayPixmap(24, 16, 128),
		Options:  Options{DisableDiffraction: true, MaxImageDim: -1},
	}
	out, err := Simulate(req)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if out.Width() != 24 || out.Height() != 16 {
		t.Fatalf("output %dx%d, want 24x16", out.Width(), out.Height())
	}
	// Output is fully opaque and non-black somewhere.
	data := out.Data()
	lit := false
	for i := 0; i < out.Width()*out.Height(); i++ {
		if data[i*4+3] != 255 {
			t.Fatalf("pixel %d alpha = %d, want 255", i, data[i*4+3])
		}
		if data[i*4] > 0 {
			lit = true
		}
	}
	if !lit {
		t.Error("output image is fully black")
	}
}

func TestSimulateDiffractionSmoke(t *testing.T) {
	resetAccelerator()

	req := Request{
		Aperture: aperturePinhole(),
		Camera:   Camera{FocalLengthMM: 50, WavelengthNM: 550},
		Source:   grayPixmap(16, 16, 200),
		Options:  Options{MaxImageDim: -1},
	}
	out, err := Simulate(req)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if out.Width() != 16 || out.Height() != 16 {
		t.Fatalf("output %dx%d, want 16x16", out.Width(), out.Height())
	}
}

func TestSimulateDeterministic(t *testing.T) {
	resetAccelerator()

	req := Request{
		Aperture: aperture.Descriptor{Kind: aperture.Pinhole, DiameterMM: 0.3, Seed: 11},
		Camera:   Camera{FocalLengthMM: 50, ISO: 6400},
		Source:   grayPixmap(16, 12, 90),
		Options:  Options{DisableDiffraction: true, MaxImageDim: -1},
	}
	a, err := Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Data(), b.Data()) {
		t.Error("identical requests produced different images")
	}
}

func TestSimulateDownsamplesAndRestores(t *testing.T) {
	resetAccelerator()

	req := Request{
		Aperture: aperturePinhole(),
		Camera:   Camera{FocalLengthMM: 50},
		Source:   grayPixmap(64, 48, 128),
		Options: Options{
			DisableDiffraction: true,
			MaxImageDim:        32,
		},
	}

	out, err := Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 32 || out.Height() != 24 {
		t.Errorf("downsampled output %dx%d, want 32x24", out.Width(), out.Height())
	}

	req.Options.RestoreSize = true
	out, err = Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 64 || out.Height() != 48 {
		t.Errorf("restored output %dx%d, want 64x48", out.Width(), out.Height())
	}
}

func TestSimulatePolychromaticParallel(t *testing.T) {
	resetAccelerator()

	req := Request{
		Aperture: aperturePinhole(),
		Camera:   Camera{FocalLengthMM: 50},
		Source:   grayPixmap(12, 12, 128),
		Options: Options{
			DisableDiffraction: true,
			Polychromatic:      true,
			Parallel:           true,
			MaxImageDim:        -1,
		},
	}
	serial := req
	serial.Options.Parallel = false

	a, err := Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Simulate(serial)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Data(), b.Data()) {
		t.Error("parallel and serial runs differ")
	}
}

func TestSimulateDegenerateApertureIsIdentityBlur(t *testing.T) {
	resetAccelerator()

	// A zero-diameter aperture yields a delta PSF: the convolution is a
	// copy and the (linear) image survives up to tone mapping.
	req := Request{
		Aperture: aperture.Descriptor{Kind: aperture.Pinhole},
		Camera:   Camera{FocalLengthMM: 50},
		Source:   grayPixmap(8, 8, 64),
		Options:  Options{DisableDiffraction: true, MaxImageDim: -1},
	}
	out, err := Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	data := out.Data()
	first := data[0]
	for i := 0; i < out.Width()*out.Height(); i++ {
		if data[i*4] != first {
			t.Fatalf("pixel %d = %d, want uniform %d", i, data[i*4], first)
		}
	}
}

func TestSimulateExposureScales(t *testing.T) {
	resetAccelerator()

	base := Request{
		Aperture: aperturePinhole(),
		Camera:   Camera{FocalLengthMM: 50},
		Source:   grayPixmap(8, 8, 64),
		Options:  Options{DisableDiffraction: true, MaxImageDim: -1},
	}
	dark, err := Simulate(base)
	if err != nil {
		t.Fatal(err)
	}

	bright := base
	bright.Exposure = 3
	lit, err := Simulate(bright)
	if err != nil {
		t.Fatal(err)
	}

	c := (8/2*8 + 8/2) * 4
	if lit.Data()[c] <= dark.Data()[c] {
		t.Errorf("exposure 3 center %d not brighter than exposure 1 center %d",
			lit.Data()[c], dark.Data()[c])
	}
}

func TestSimulateWideGeometricApertureStaysLit(t *testing.T) {
	// A 3 mm square slit in geometric mode lands on a 512 grid where
	// every PSF cell is below the sparse tap cut; strategy selection must
	// not discard the kernel and black out the scene.
	out, err := Simulate(Request{
		Aperture: aperture.Descriptor{
			Kind: aperture.Slit, SlitWidthMM: 3, SlitHeightMM: 3,
		},
		Camera:  Camera{FocalLengthMM: 50},
		Source:  grayPixmap(16, 16, 128),
		Options: Options{DisableDiffraction: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := (16/2*16 + 16/2) * 4
	if out.Data()[c] == 0 {
		t.Errorf("center channel = 0, want lit")
	}
}

func TestSimulateZeroExposureMeansUnit(t *testing.T) {
	req := Request{
		Aperture: aperturePinhole(),
		Camera:   Camera{FocalLengthMM: 50},
		Source:   grayPixmap(16, 16, 120),
	}
	zero, err := Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	req.Exposure = 1
	unit, err := Simulate(req)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(zero.Data(), unit.Data()) {
		t.Error("zero exposure differs from exposure 1")
	}
}

func TestRenderMask(t *testing.T) {
	pm := RenderMask(aperturePinhole(), Camera{FocalLengthMM: 50}, 0)
	if pm.Width() != 512 || pm.Height() != 512 {
		t.Fatalf("mask pixmap %dx%d, want 512x512", pm.Width(), pm.Height())
	}
	data := pm.Data()
	c := (512/2*512 + 512/2) * 4
	if data[c] != 255 {
		t.Errorf("center = %d, want 255 (open)", data[c])
	}
	if data[3] != 255 {
		t.Errorf("alpha = %d, want 255", data[3])
	}
	if data[0] != 0 {
		t.Errorf("corner = %d, want 0 (closed)", data[0])
	}
}
