// Package post applies the radiometric finishing passes that turn linear
// convolution output into a displayable image: cosine-fourth vignetting,
// stylized sensor noise, ACES filmic tone mapping and gamma encoding.
package post

import "math"

// ACES filmic curve constants (Narkowicz fit).
const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14
)

// BaseISO is the sensitivity below which no sensor noise is added.
const BaseISO = 100.0

// noiseScale converts ISO overshoot into noise amplitude on the 8-bit
// scale: magnitude = (ISO/3200)·15.
const (
	noiseISORef  = 3200.0
	noiseMaxAmpl = 15.0
)

// invGamma is the display encoding exponent.
const invGamma = 1.0 / 2.2

// Vignette multiplies the three color channels (planar, length w·h, values
// on a linear scale) by the cosine-fourth falloff for a lens of focal
// length focalMM. The horizontal and vertical pixel pitches are passed
// separately so non-square sensors vignette correctly on both axes.
func Vignette(r, g, b []float64, w, h int, focalMM, pitchXMM, pitchYMM float64) {
	if focalMM <= 0 || pitchXMM <= 0 || pitchYMM <= 0 {
		return
	}
	f2 := focalMM * focalMM
	cx := float64(w) / 2
	cy := float64(h) / 2
	for y := 0; y < h; y++ {
		dy := (float64(y) + 0.5 - cy) * pitchYMM
		row := y * w
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - cx) * pitchXMM
			c := f2 / (f2 + dx*dx + dy*dy)
			cos4 := c * c
			i := row + x
			r[i] *= cos4
			g[i] *= cos4
			b[i] *= cos4
		}
	}
}

// NoiseSource yields uniform samples in [0, 1). The caller supplies a
// seeded generator so noise is reproducible per request.
type NoiseSource interface {
	Float64() float64
}

// AddNoise adds independent zero-mean uniform noise to each channel when
// the ISO exceeds BaseISO. The magnitude is (ISO/3200)·15 on the 8-bit
// scale, rescaled here because channels are still on the linear 0..1 scale.
// alpha guards fully transparent pixels: where alpha is zero the pixel is
// left untouched.
func AddNoise(r, g, b, alpha []float64, iso float64, src NoiseSource) {
	if iso <= BaseISO || src == nil {
		return
	}
	amp := iso / noiseISORef * noiseMaxAmpl / 255
	for i := range r {
		if alpha != nil && alpha[i] <= 0 {
			continue
		}
		r[i] += (src.Float64() - 0.5) * 2 * amp
		g[i] += (src.Float64() - 0.5) * 2 * amp
		b[i] += (src.Float64() - 0.5) * 2 * amp
	}
}

// Tonemap compresses one linear value in [0, ∞) to [0, 1] with the ACES
// filmic curve.
func Tonemap(x float64) float64 {
	if x <= 0 {
		return 0
	}
	v := x * (acesA*x + acesB) / (x*(acesC*x+acesD) + acesE)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Encode tone-maps a linear channel value (0..1 scale), gamma-encodes it
// and returns the 8-bit output sample.
func Encode(x float64) uint8 {
	v := math.Pow(Tonemap(x), invGamma) * 255
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
