package progression

// hashString folds each rune's code point into a running 32-bit signed
// accumulator (hash*31 + code, with wraparound) and returns the absolute
// value. Non-cryptographic: collisions across (user, day) inputs only mean
// a shared mission ordering, never a security problem.
func hashString(s string) int64 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// lcg is a linear congruential generator with fixed constants. The state
// update uses integer arithmetic only, so the stream is reproducible across
// runtimes regardless of float rounding behavior.
type lcg struct {
	state int64
}

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

func newLCG(seed int64) *lcg {
	return &lcg{state: seed}
}

// next returns a float in [0, 1).
func (g *lcg) next() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / lcgModulus
}

// shuffleWithSeed returns a seeded Fisher-Yates permutation of items.
// The input slice is never mutated. Determinism holds per (seed, items)
// pair: the same seed and input always produce the same order.
func shuffleWithSeed(items []string, seed int64) []string {
	shuffled := make([]string, len(items))
	copy(shuffled, items)

	rng := newLCG(seed)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(rng.next() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
