package diffract

// StrategyChoice selects the convolution strategy.
type StrategyChoice int

const (
	// StrategyAuto picks sparse-spatial for compact PSFs and
	// frequency-domain for diffuse ones. This is the default.
	StrategyAuto StrategyChoice = iota

	// StrategySparse forces the sparse spatial path.
	StrategySparse

	// StrategyFrequency forces the frequency-domain path.
	StrategyFrequency
)

// Options configures a simulation request. The zero value is usable;
// DefaultOptions fills in the recommended settings.
type Options struct {
	// Polychromatic simulates three wavelengths (650/550/450 nm) with one
	// PSF per color channel. When false, the camera wavelength drives a
	// single PSF shared by all channels.
	Polychromatic bool

	// DisableDiffraction skips wave propagation and uses the normalized
	// mask silhouette as a purely geometric blur kernel.
	DisableDiffraction bool

	// Vignetting enables the cosine-fourth falloff pass.
	Vignetting bool

	// PixelDensity is the target mask sampling density in pixels per
	// millimeter. Zero means DefaultPixelDensity. Higher densities grow
	// the grid (silently capped at 2048).
	PixelDensity float64

	// MaxImageDim downsamples the source image so its longer edge does not
	// exceed this before convolution. Zero means DefaultMaxImageDim;
	// negative disables downsampling.
	MaxImageDim int

	// RestoreSize scales the output back to the original source dimensions
	// when downsampling was applied.
	RestoreSize bool

	// Parallel runs independent color channels on separate goroutines in
	// polychromatic mode.
	Parallel bool

	// Strategy overrides convolution strategy selection.
	Strategy StrategyChoice
}

// DefaultPixelDensity is the mask sampling density used when Options
// leaves it zero.
const DefaultPixelDensity = 100.0

// DefaultMaxImageDim is the pre-convolution size cap used when Options
// leaves it zero.
const DefaultMaxImageDim = 1024

// DefaultOptions returns the recommended simulation options: diffraction
// on, vignetting on, automatic strategy selection.
func DefaultOptions() Options {
	return Options{
		Vignetting:   true,
		PixelDensity: DefaultPixelDensity,
		MaxImageDim:  DefaultMaxImageDim,
		RestoreSize:  true,
	}
}

// pixelDensity resolves the effective density.
func (o Options) pixelDensity() float64 {
	if o.PixelDensity > 0 {
		return o.PixelDensity
	}
	return DefaultPixelDensity
}

// maxImageDim resolves the effective downsampling cap; 0 disables.
func (o Options) maxImageDim() int {
	if o.MaxImageDim < 0 {
		return 0
	}
	if o.MaxImageDim == 0 {
		return DefaultMaxImageDim
	}
	return o.MaxImageDim
}
