// Package hash implements the fast modular hash used to derive the per-label seeds
// of the stratified dataset split.
package hash

// Hash mixes n with salt s and reduces the result into the range [0, max).
// A max of 0 always yields 0.
func Hash(n uint32, s uint32, max uint32) uint32 {
	var m = n - s

	// xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	m += s

	// multiply shift reduction instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Seed derives a new 63-bit PRNG seed from seed and salt. Equal inputs give equal seeds,
// different salts give unrelated streams.
func Seed(seed int64, salt uint32) int64 {
	lo := Hash(uint32(seed), salt, 0xFFFFFFFF)
	hi := Hash(uint32(uint64(seed)>>32)^lo, salt+0x9E3779B9, 0xFFFFFFFF)
	return int64((uint64(hi)<<32 | uint64(lo)) >> 1)
}
