// Command diffractsim simulates photographing a source image through a
// physical aperture.
//
// Example:
//
//	diffractsim -input scene.png -output out.png -shape zoneplate \
//	    -diameter 2.0 -zones 20 -focal 50 -wavelength 550 -poly
package main

import (
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/waveopt/diffract"
	"github.com/waveopt/diffract/aperture"
)

func main() {
	var (
		input    = flag.String("input", "", "source PNG image (required unless -mask-only)")
		output   = flag.String("output", "out.png", "output PNG file")
		maskOut  = flag.String("mask-out", "", "also write the rasterized mask to this PNG")
		maskOnly = flag.Bool("mask-only", false, "write only the mask, skip simulation")

		shape    = flag.String("shape", "pinhole", "aperture shape (pinhole, slit, zoneplate, photonsieve, coded, ...)")
		diameter = flag.Float64("diameter", 0.3, "aperture diameter in mm")
		inner    = flag.Float64("inner", 0, "inner diameter in mm (annular, concentric)")
		slitW    = flag.Float64("slit-width", 0.05, "slit width in mm")
		slitH    = flag.Float64("slit-height", 2.0, "slit height in mm")
		count    = flag.Int("count", 8, "element count (grating slits, dots, spokes)")
		spread   = flag.Float64("spread", 0.5, "element spacing or placement radius in mm")
		rotation = flag.Float64("rotation", 0, "rotation in degrees")
		zones    = flag.Int("zones", 20, "zone count (zoneplate, photonsieve)")
		profile  = flag.String("profile", "binary", "zone profile: binary, sinusoidal, spiral")
		pattern  = flag.String("pattern", "ring", "multi-dot pattern: ring, grid, concentric, random, line")
		seed     = flag.Uint("seed", 1, "seed for randomized shapes")
		rank     = flag.Int("rank", 13, "prime rank for coded apertures")
		iters    = flag.Int("iterations", 4, "fractal iteration depth")
		stroke   = flag.Float64("stroke", 0.05, "stroke width in mm (freeform, curves)")

		focal      = flag.Float64("focal", 50, "focal length in mm")
		sensorW    = flag.Float64("sensor-width", 36, "sensor width in mm")
		sensorH    = flag.Float64("sensor-height", 24, "sensor height in mm")
		wavelength = flag.Float64("wavelength", 550, "wavelength in nm (monochrome mode)")
		iso        = flag.Float64("iso", 100, "sensor ISO")
		exposure   = flag.Float64("exposure", 1.0, "exposure multiplier")

		poly     = flag.Bool("poly", false, "polychromatic simulation (per-channel wavelengths)")
		noDiff   = flag.Bool("no-diffraction", false, "geometric blur only, skip wave propagation")
		vignette = flag.Bool("vignette", true, "apply cosine-fourth vignetting")
		density  = flag.Float64("density", diffract.DefaultPixelDensity, "mask sampling density in px/mm")
		verbose  = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		diffract.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	kind, ok := aperture.KindByName(*shape)
	if !ok {
		log.Fatalf("Unknown shape %q", *shape)
	}

	desc := aperture.Descriptor{
		Kind:            kind,
		DiameterMM:      *diameter,
		InnerDiameterMM: *inner,
		SlitWidthMM:     *slitW,
		SlitHeightMM:    *slitH,
		Count:           *count,
		SpreadMM:        *spread,
		RotationRad:     *rotation * math.Pi / 180,
		Zones:           *zones,
		Profile:         parseProfile(*profile),
		Pattern:         parsePattern(*pattern),
		Iterations:      *iters,
		Seed:            uint32(*seed),
		Rank:            *rank,
		StrokeWidthMM:   *stroke,
	}
	camera := diffract.Camera{
		FocalLengthMM:  *focal,
		SensorWidthMM:  *sensorW,
		SensorHeightMM: *sensorH,
		WavelengthNM:   *wavelength,
		ISO:            *iso,
	}

	if *maskOut != "" || *maskOnly {
		pm := diffract.RenderMask(desc, camera, *density)
		path := *maskOut
		if path == "" {
			path = *output
		}
		if err := pm.SavePNG(path); err != nil {
			log.Fatalf("Failed to save mask: %v", err)
		}
		log.Printf("Mask saved to %s (%dx%d)", path, pm.Width(), pm.Height())
		if *maskOnly {
			return
		}
	}

	if *input == "" {
		log.Fatal("-input is required (or use -mask-only)")
	}
	src, err := diffract.LoadPNG(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}

	opts := diffract.DefaultOptions()
	opts.Polychromatic = *poly
	opts.DisableDiffraction = *noDiff
	opts.Vignetting = *vignette
	opts.PixelDensity = *density
	opts.Parallel = *poly

	out, err := diffract.Simulate(diffract.Request{
		Aperture: desc,
		Camera:   camera,
		Source:   src,
		Exposure: *exposure,
		Options:  opts,
	})
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	if err := out.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Result saved to %s (%dx%d)", *output, out.Width(), out.Height())
}

func parseProfile(s string) aperture.Profile {
	switch s {
	case "sinusoidal":
		return aperture.ProfileSinusoidal
	case "spiral":
		return aperture.ProfileSpiral
	default:
		return aperture.ProfileBinary
	}
}

func parsePattern(s string) aperture.Pattern {
	switch s {
	case "grid":
		return aperture.PatternGrid
	case "concentric":
		return aperture.PatternConcentric
	case "random":
		return aperture.PatternRandom
	case "line":
		return aperture.PatternLine
	default:
		return aperture.PatternRing
	}
}
