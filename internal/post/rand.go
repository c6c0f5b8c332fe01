package post

// Uniform is a small linear congruential generator used as the noise
// source. It is seeded per request, never shared, so a request's noise is
// reproducible.
type Uniform struct {
	state uint32
}

// NewUniform creates a generator with the given seed.
func NewUniform(seed uint32) *Uniform {
	return &Uniform{state: seed}
}

// Float64 returns the next sample in [0, 1).
func (u *Uniform) Float64() float64 {
	u.state = u.state*1664525 + 1013904223
	return float64(u.state) / (1 << 32)
}
