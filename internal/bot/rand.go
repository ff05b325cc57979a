package bot

import (
	"math/rand"
	"time"
)

// newRand returns a random source for one game and the seed it was built
// from. A zero seed picks one from the clock so the log can reproduce it.
func newRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}
