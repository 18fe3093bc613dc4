package dice

import (
	"math/rand/v2"
	"time"
)

// Source is the single random capability the engine depends on.
// IntN returns a uniformly distributed integer in [0, n).
type Source interface {
	IntN(n int) int
}

// Roll returns an integer in [lo, hi] inclusive.
func Roll(src Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Choice returns one element of items drawn uniformly.
// It panics on an empty slice, same as indexing would.
func Choice[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Sample draws k distinct elements of items without replacement,
// preserving draw order. k is capped at len(items).
func Sample[T any](src Source, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	pool := make([]T, len(items))
	copy(pool, items)

	out := make([]T, 0, k)
	for range k {
		i := src.IntN(len(pool))
		out = append(out, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return out
}

// MathSource adapts math/rand/v2 to Source.
type MathSource struct {
	r *rand.Rand
}

var _ Source = (*MathSource)(nil)

// NewMathSource returns a PCG-backed source. The same seed always
// yields the same sequence.
func NewMathSource(seed uint64) *MathSource {
	return &MathSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSource seeds a MathSource from the wall clock.
func NewTimeSource() *MathSource {
	return NewMathSource(uint64(time.Now().UnixNano()))
}

func (m *MathSource) IntN(n int) int {
	return m.r.IntN(n)
}
