// Package convolve applies a point-spread function to image channels.
//
// Two strategies implement the same contract and agree numerically: a
// frequency-domain path (exact, cost independent of PSF density) and a
// sparse spatial path (exact, cheap for compact PSFs). Auto picks between
// them from the PSF's tap count and the energy those taps retain.
package convolve

import (
	"github.com/waveopt/diffract/internal/fft"
)

// TapThreshold is the minimum PSF weight that contributes a sparse tap.
// Cells below it are dropped; at the default the discarded energy is far
// below one 8-bit quantization step.
const TapThreshold = 1e-5

// maxSparseTaps bounds the tap count above which the frequency-domain
// strategy wins on cost.
const maxSparseTaps = 4096

// sparseEnergyFloor is the fraction of total PSF energy the sparse tap set
// must retain. Below it the cut is discarding signal, not noise: a wide
// diffuse PSF can sit under the tap threshold in every cell.
const sparseEnergyFloor = 0.999

// Strategy convolves a single channel (length w·h, row-major) with an n×n
// PSF whose center tap is at (n/2, n/2). PSF cells map one to one onto
// image pixels. dst and src must not alias.
type Strategy interface {
	Name() string
	Convolve(dst, src []float64, w, h int, psf []float64, n int) error
}

// Auto selects the cheaper strategy for the given PSF: sparse spatial when
// a small tap set carries essentially all of the PSF energy,
// frequency-domain otherwise. A PSF too diffuse for the tap threshold, such
// as a large aperture silhouette, routes to the frequency path so no energy
// is dropped.
func Auto(psf []float64, n int) Strategy {
	taps := 0
	total := 0.0
	kept := 0.0
	for _, v := range psf {
		total += v
		if v > TapThreshold {
			kept += v
			taps++
		}
	}
	if taps == 0 || taps > maxSparseTaps || kept < sparseEnergyFloor*total {
		return &Frequency{}
	}
	return &Sparse{Threshold: TapThreshold}
}

// Tap is one sparse PSF sample: an offset from the PSF center and its
// weight.
type Tap struct {
	DX, DY int
	W      float64
}

// ExtractTaps lists all PSF cells above the threshold as center-relative
// taps.
func ExtractTaps(psf []float64, n int, threshold float64) []Tap {
	half := n / 2
	var taps []Tap
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			w := psf[y*n+x]
			if w > threshold {
				taps = append(taps, Tap{DX: x - half, DY: y - half, W: w})
			}
		}
	}
	return taps
}

func tapEnergy(taps []Tap) float64 {
	e := 0.0
	for _, t := range taps {
		e += t.W
	}
	return e
}

// Sparse is the spatial-domain strategy: each output pixel sums the source
// over the PSF's taps. Taps falling outside the image are skipped, which
// matches the zero padding of the frequency path.
type Sparse struct {
	// Threshold overrides TapThreshold when positive and is applied as
	// given. The zero value uses TapThreshold, lowered as needed so the
	// tap set retains essentially all of the PSF energy.
	Threshold float64
}

// Name implements Strategy.
func (s *Sparse) Name() string { return "sparse" }

// Convolve implements Strategy.
func (s *Sparse) Convolve(dst, src []float64, w, h int, psf []float64, n int) error {
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = TapThreshold
	}
	taps := ExtractTaps(psf, n, threshold)
	if s.Threshold <= 0 {
		// A diffuse PSF can fall under the default cut in every cell.
		// Lower the cut until the tap set keeps essentially all of the
		// energy; cost grows, correctness does not. An explicit Threshold
		// is a deliberate cut and stays as given.
		total := 0.0
		for _, v := range psf {
			total += v
		}
		for tapEnergy(taps) < sparseEnergyFloor*total {
			if threshold == 0 {
				break
			}
			threshold /= 10
			if threshold < 1e-12 {
				threshold = 0
			}
			taps = ExtractTaps(psf, n, threshold)
		}
	}

	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			sum := 0.0
			for _, t := range taps {
				sx := x - t.DX
				sy := y - t.DY
				if sx < 0 || sx >= w || sy < 0 || sy >= h {
					continue
				}
				sum += t.W * src[sy*w+sx]
			}
			dst[row+x] = sum
		}
	}
	return nil
}

// Frequency is the FFT strategy: transform the zero-padded channel and the
// center-unwrapped PSF to a common power-of-two grid, multiply spectra,
// transform back and take the real part.
type Frequency struct{}

// Name implements Strategy.
func (f *Frequency) Name() string { return "frequency" }

// Convolve implements Strategy.
func (f *Frequency) Convolve(dst, src []float64, w, h int, psf []float64, n int) error {
	// The common grid must hold the linear convolution of both supports.
	size := w
	if h > size {
		size = h
	}
	size = nextPow2(size + n)

	plan, err := fft.NewPlan(size)
	if err != nil {
		return err
	}

	srcRe := make([]float64, size*size)
	srcIm := make([]float64, size*size)
	for y := 0; y < h; y++ {
		copy(srcRe[y*size:y*size+w], src[y*w:(y+1)*w])
	}

	// Unwrap the centered PSF so its center tap lands at (0,0); negative
	// offsets wrap to the far edge of the padded grid.
	psfRe := make([]float64, size*size)
	psfIm := make([]float64, size*size)
	half := n / 2
	for y := 0; y < n; y++ {
		ty := (y - half + size) % size
		for x := 0; x < n; x++ {
			tx := (x - half + size) % size
			psfRe[ty*size+tx] += psf[y*n+x]
		}
	}

	plan.Forward2D(srcRe, srcIm)
	plan.Forward2D(psfRe, psfIm)

	for i := range srcRe {
		re := srcRe[i]*psfRe[i] - srcIm[i]*psfIm[i]
		im := srcRe[i]*psfIm[i] + srcIm[i]*psfRe[i]
		srcRe[i] = re
		srcIm[i] = im
	}

	plan.Inverse2D(srcRe, srcIm)

	for y := 0; y < h; y++ {
		copy(dst[y*w:(y+1)*w], srcRe[y*size:y*size+w])
	}
	return nil
}

func nextPow2(n int) int {
	p := 2
	for p < n {
		p *= 2
	}
	return p
}
