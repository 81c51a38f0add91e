// Package randutil derives reproducible math/rand/v2 sources for sessions,
// decks and flavour text.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// words are derived from the one seed so every caller gets the same stream
// for the same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Child derives an independent stream from a parent seed and a stream index,
// e.g. one per simulated session.
func Child(seed int64, index int) *rand.Rand {
	return New(int64(mix(uint64(seed) ^ mix(uint64(index)+goldenRatio64))))
}

// ResolveSeed returns *seed when set, otherwise a seed taken from now.
// The second result reports whether the seed was explicit.
func ResolveSeed(seed *int64, now time.Time) (int64, bool) {
	if seed != nil {
		return *seed, true
	}
	return now.UnixNano(), false
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
