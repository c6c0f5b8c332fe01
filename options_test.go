package diffract

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if !o.Vignetting {
		t.Error("default options disable vignetting")
	}
	if o.DisableDiffraction {
		t.Error("default options disable diffraction")
	}
	if o.PixelDensity != DefaultPixelDensity {
		t.Errorf("PixelDensity = %g, want %g", o.PixelDensity, DefaultPixelDensity)
	}
	if o.MaxImageDim != DefaultMaxImageDim {
		t.Errorf("MaxImageDim = %d, want %d", o.MaxImageDim, DefaultMaxImageDim)
	}
	if !o.RestoreSize {
		t.Error("default options drop RestoreSize")
	}
}

func TestOptionResolvers(t *testing.T) {
	var o Options
	if got := o.pixelDensity(); got != DefaultPixelDensity {
		t.Errorf("zero density resolves to %g, want %g", got, DefaultPixelDensity)
	}
	o.PixelDensity = 50
	if got := o.pixelDensity(); got != 50 {
		t.Errorf("density = %g, want 50", got)
	}

	o.MaxImageDim = 0
	if got := o.maxImageDim(); got != DefaultMaxImageDim {
		t.Errorf("zero dim resolves to %d, want %d", got, DefaultMaxImageDim)
	}
	o.MaxImageDim = 256
	if got := o.maxImageDim(); got != 256 {
		t.Errorf("dim = %d, want 256", got)
	}
	o.MaxImageDim = -1
	if got := o.maxImageDim(); got != 0 {
		t.Errorf("negative dim resolves to %d, want 0 (disabled)", got)
	}
}

func TestCameraWavelengthDefault(t *testing.T) {
	var c Camera
	if got := c.wavelengthNM(); got != DefaultWavelengthNM {
		t.Errorf("zero wavelength resolves to %g, want %g", got, DefaultWavelengthNM)
	}
	c.WavelengthNM = 450
	if got := c.wavelengthNM(); got != 450 {
		t.Errorf("wavelength = %g, want 450", got)
	}
}
