package world

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// SeededRNG derives a PCG source from a single seed so simulations can
// be replayed exactly.
// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
// #nosec G404
func SeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
