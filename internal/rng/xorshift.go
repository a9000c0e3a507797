package rng

// zeroSeedSubstitute replaces a zero seed, which would lock the generator at zero forever
const zeroSeedSubstitute uint32 = 0x1a2b3c4d

// XorShift32 is a small deterministic generator (Marsaglia, shifts 13/17/5)
// It is not safe for concurrent use.
type XorShift32 struct {
	state uint32
}

// NewXorShift32 returns a generator seeded with seed
func NewXorShift32(seed uint32) *XorShift32 {
	if seed == 0 {
		seed = zeroSeedSubstitute
	}

	return &XorShift32{state: seed}
}

// Next advances the generator and returns the new state
func (x *XorShift32) Next() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s

	return s
}

// Float64 returns a number in [0, 1) with 32 bits of precision
func (x *XorShift32) Float64() float64 {
	return float64(x.Next()) / (1 << 32)
}

// Intn returns floor(Float64() * n), computed without floating point rounding
func (x *XorShift32) Intn(n int) int {
	if n <= 0 {
		panic("invalid argument to Intn")
	}

	return int((uint64(x.Next()) * uint64(n)) >> 32)
}
