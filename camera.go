package diffract

// Camera describes the imaging geometry and sensor. Immutable per request.
type Camera struct {
	// FocalLengthMM is the aperture-to-sensor distance.
	FocalLengthMM float64

	// SensorWidthMM and SensorHeightMM size the sensor; they relate image
	// pixels to physical offsets for vignetting.
	SensorWidthMM  float64
	SensorHeightMM float64

	// WavelengthNM is the simulation wavelength when the request is not
	// polychromatic. Zero means DefaultWavelengthNM.
	WavelengthNM float64

	// ISO is the sensor sensitivity; values above the base ISO add
	// stylized sensor noise.
	ISO float64
}

// DefaultWavelengthNM is the monochrome wavelength used when the camera
// leaves it zero (green, near the photopic peak).
const DefaultWavelengthNM = 550.0

// Polychromatic channel wavelengths in nanometers.
const (
	WavelengthRedNM   = 650.0
	WavelengthGreenNM = 550.0
	WavelengthBlueNM  = 450.0
)

// nmToMM converts a wavelength from nanometers to millimeters, the unit
// all optical arithmetic runs in.
func nmToMM(nm float64) float64 { return nm * 1e-6 }

// wavelengthNM resolves the effective monochrome wavelength.
func (c Camera) wavelengthNM() float64 {
	if c.WavelengthNM > 0 {
		return c.WavelengthNM
	}
	return DefaultWavelengthNM
}
