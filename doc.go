// Package diffract simulates image formation through physical apertures.
//
// # Overview
//
// diffract turns a declarative aperture description (pinhole, zone plate,
// photon sieve, coded aperture, and a dozen other parametric shapes) into a
// rasterized transmission mask, propagates the mask's wavefront to the
// sensor plane with the angular spectrum method, derives a normalized
// point-spread function per wavelength, convolves a source image against it
// per color channel, and applies radiometric post-processing (vignetting,
// sensor noise, ACES tone mapping) to produce a displayable image.
//
// # Quick Start
//
//	import (
//	    "github.com/waveopt/diffract"
//	    "github.com/waveopt/diffract/aperture"
//	)
//
//	src, _ := diffract.LoadPNG("scene.png")
//	out, err := diffract.Simulate(diffract.Request{
//	    Aperture: aperture.Descriptor{Kind: aperture.Pinhole, DiameterMM: 0.3},
//	    Camera:   diffract.Camera{FocalLengthMM: 50, WavelengthNM: 550},
//	    Source:   src,
//	    Exposure: 1.0,
//	})
//	if err == nil {
//	    out.SavePNG("result.png")
//	}
//
// # Architecture
//
// The pipeline is organized leaves first:
//   - aperture: shape descriptors (public, shared with hosts)
//   - internal/mask: descriptor → transmission mask + grid sizing
//   - internal/optics: angular-spectrum propagation, PSF normalization
//   - internal/convolve: frequency-domain and sparse-spatial strategies
//   - internal/post: vignetting, noise, tone map, gamma
//   - root: orchestration, async Renderer, accelerator registry
//
// Data flows strictly downward: descriptor → mask → field → PSF →
// convolved image → final image. Every request owns its buffers; nothing is
// shared between concurrent requests.
//
// # Acceleration
//
// An optional hardware backend can be registered via blank import:
//
//	import _ "github.com/waveopt/diffract/gpu"
//
// Acceleration is a performance optimization only: the numerical results
// are identical with or without it, and any accelerator failure falls back
// to the CPU path transparently.
package diffract
