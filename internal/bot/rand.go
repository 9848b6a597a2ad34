package bot

import (
	"math"
	"math/rand"
	"sync"

	"lukechampine.com/frand"
)

// botRng is the package-level source of per-game seeds. When nil, seeds
// come from frand. Use SeedBotRng for reproducible matches.
var (
	botRng   *rand.Rand
	botRngMu sync.Mutex
)

// SeedBotRng sets a deterministic source of game seeds.
func SeedBotRng(seed int64) {
	botRngMu.Lock()
	defer botRngMu.Unlock()
	botRng = rand.New(rand.NewSource(seed))
}

// ResetBotRng reverts to non-deterministic seeds.
func ResetBotRng() {
	botRngMu.Lock()
	defer botRngMu.Unlock()
	botRng = nil
}

// NewSeed returns a seed for one game.
func NewSeed() int64 {
	botRngMu.Lock()
	defer botRngMu.Unlock()
	if botRng != nil {
		return botRng.Int63()
	}
	return int64(frand.Uint64n(math.MaxInt64))
}

// NewRng returns a generator owned by a single game.
func NewRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
