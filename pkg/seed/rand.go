package seed

import "github.com/MichaelTJones/pcg"

// Rand is a PCG stream keyed by a seed and an entity id. Two Rands built
// from the same pair produce the same sequence.
type Rand struct {
	r *pcg.PCG32
}

// NewRand returns the stream for (seed, objectID).
func NewRand(seed uint32, objectID string) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.r.Seed(uint64(seed)<<32|uint64(StringToNumber(objectID)), 0xda3e39cb94b95bdb)
	return r
}

// Intn returns a value in [0, n).
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.r.Bounded(uint32(n)))
}

// Float64 returns a value in [0, 1].
func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1<<32 - 1)
}

// Between returns a value in [lo, hi].
func (r *Rand) Between(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Jitter returns base moved by at most spread in either direction.
func (r *Rand) Jitter(base, spread float64) float64 {
	return base + r.Between(-spread, spread)
}
