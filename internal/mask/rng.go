package mask

// lcg is a 32-bit linear congruential generator (Numerical Recipes
// constants). Every randomized shape owns one, seeded from its descriptor,
// so a descriptor rasterizes to the same mask bit for bit on every run.
// Process-global random state is never used here.
type lcg struct {
	state uint32
}

func newLCG(seed uint32) *lcg {
	return &lcg{state: seed}
}

func (r *lcg) next() uint32 {
	r.state = r.state*1664525 + 1013904223
	return r.state
}

// float64 returns a value in [0, 1).
func (r *lcg) float64() float64 {
	return float64(r.next()) / (1 << 32)
}

// symmetric returns a value in [-1, 1).
func (r *lcg) symmetric() float64 {
	return 2*r.float64() - 1
}
