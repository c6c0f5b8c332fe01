package mask

import (
	"math"

	"github.com/waveopt/diffract/aperture"
)

// quadraticResidues returns the set of nonzero quadratic residues mod the
// prime p.
func quadraticResidues(p int) map[int]bool {
	res := make(map[int]bool, p/2)
	for k := 1; k < p; k++ {
		res[k*k%p] = true
	}
	return res
}

// qr returns 1 if n is a nonzero quadratic residue mod p, −1 if it is a
// nonzero non-residue, and 0 for n = 0.
func qr(n int, residues map[int]bool) int {
	if n == 0 {
		return 0
	}
	if residues[n] {
		return 1
	}
	return -1
}

// drawCoded rasterizes a uniformly redundant array of prime rank R: an R×R
// cell grid where cell (i,j) is closed on the i = 0 row, open on the j = 0
// column, and otherwise open iff QR(i)·QR(j) = 1.
func drawCoded(c *canvas, d aperture.Descriptor) {
	rank := d.Rank
	if rank < 2 {
		return
	}
	side := d.DiameterMM
	half := side / 2
	pitch := side / float64(rank)
	residues := quadraticResidues(rank)

	open := make([]bool, rank*rank)
	for i := 0; i < rank; i++ {
		for j := 0; j < rank; j++ {
			switch {
			case i == 0:
				// closed
			case j == 0:
				open[i*rank+j] = true
			default:
				open[i*rank+j] = qr(i, residues)*qr(j, residues) == 1
			}
		}
	}

	c.each(func(x, y float64) float64 {
		x, y = rotate(x, y, d.RotationRad)
		if x < -half || x >= half || y < -half || y >= half {
			return 0
		}
		i := int(math.Floor((x + half) / pitch))
		j := int(math.Floor((y + half) / pitch))
		if i < 0 || i >= rank || j < 0 || j >= rank {
			return 0
		}
		if open[i*rank+j] {
			return 1
		}
		return 0
	})
}
