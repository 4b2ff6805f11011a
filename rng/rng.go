// Package rng provides deterministic per-worker random streams for the
// solver: a master seed yields one independent child stream per worker, all
// drawn from the Go standard library's math/rand default source (an additive
// lagged Fibonacci generator, not MT19937), plus the uniform and
// hypergeometric primitives the SSA stepper and the sampler need.
package rng

import (
	"math"
	"math/rand"
	"time"
)

// Source is a single worker's random stream. Not safe for concurrent use —
// each worker owns exactly one Source and never shares it.
type Source struct {
	r *rand.Rand
}

// NewMaster builds the master stream from a 64-bit seed. A zero seed draws
// entropy from the wall clock.
func NewMaster(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{r: rand.New(rand.NewSource(int64(seed)))}
}

// Child deterministically derives the i'th worker stream from the master.
// Each call consumes one draw from the master, so given the same master seed,
// the same index and the same sequence of earlier Child calls, Child returns
// a stream that produces the same sequence — this is what makes the whole
// simulation reproducible given (seed, Nthread, partitioning).
func (m *Source) Child(i int) *Source {
	// splitmix64 step keyed by worker index, decorrelates sibling streams
	// even though they derive from one master draw.
	x := m.r.Uint64() ^ splitmix64(uint64(i)+0x9E3779B97F4A7C15)
	return &Source{r: rand.New(rand.NewSource(int64(x)))}
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// UniformPos draws a uniform value on (0, 1], never returning exactly 0 so
// that -ln(u) used for exponential inter-event draws stays finite.
func (s *Source) UniformPos() float64 {
	for {
		u := s.r.Float64()
		if u > 0 {
			return u
		}
	}
}

// UniformInt draws a uniform integer on [0, max). Panics if max <= 0.
func (s *Source) UniformInt(max int) int {
	return s.r.Intn(max)
}

// Hypergeometric draws from Hyp(k1, k2, n): n draws without replacement from
// an urn of k1 "success" items and k2 "failure" items, returning the number
// of successes drawn. Uses direct urn simulation, which is exact and, for
// the modest per-event compartment counts this solver handles, fast enough
// that a specialized inversion algorithm isn't warranted.
func (s *Source) Hypergeometric(k1, k2, n int) int {
	if n <= 0 || k1+k2 <= 0 {
		return 0
	}
	if n > k1+k2 {
		n = k1 + k2
	}
	successes := 0
	remaining1, remaining2 := k1, k2
	for i := 0; i < n; i++ {
		total := remaining1 + remaining2
		if total <= 0 {
			break
		}
		if s.UniformInt(total) < remaining1 {
			successes++
			remaining1--
		} else {
			remaining2--
		}
	}
	return successes
}

// Exponential draws -ln(UniformPos())/rate, the SSA inter-event time. rate
// must be > 0; callers are responsible for the sum_t_rate <= 0 fast path.
func (s *Source) Exponential(rate float64) float64 {
	return -math.Log(s.UniformPos()) / rate
}
