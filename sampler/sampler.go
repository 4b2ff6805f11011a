// Package sampler implements sample_select: drawing an integer vector of
// individuals from a node's compartments as specified by an event's select
// column.
package sampler

import (
	"simnet/rng"
	"simnet/simerr"
	"simnet/sparse"
)

// Select draws n (or round(proportion*X) if n==0) individuals from the
// compartments listed in select column s of E, out of node's compartment
// slice u (length Nc, the whole node's row). It returns a delta vector of
// length Nc: individuals[c] individuals drawn from compartment c, zero
// elsewhere. u is read-only; the caller applies the delta.
func Select(s *rng.Source, e *sparse.CSC[int], col int, u []int, n int, proportion float64) ([]int, error) {
	rows, _ := e.Column(col)
	k := len(rows)
	if k <= 0 {
		return nil, simerr.Wrap(simerr.SampleSelect, "select column %d has no compartments", col)
	}

	x := make([]int, k)
	total := 0
	nonzero := 0
	for i, c := range rows {
		x[i] = u[c]
		total += u[c]
		if u[c] > 0 {
			nonzero++
		}
	}

	nActual := n
	if n == 0 {
		if proportion < 0 || proportion > 1 {
			return nil, simerr.Wrap(simerr.SampleSelect, "proportion %f out of [0,1]", proportion)
		}
		nActual = roundHalfAwayFromZero(proportion * float64(total))
	}
	if nActual < 0 || nActual > total {
		return nil, simerr.Wrap(simerr.SampleSelect, "n=%d infeasible against total=%d", nActual, total)
	}

	individuals := make([]int, len(u))

	switch {
	case nActual == 0:
		return individuals, nil
	case nActual == total:
		for i, c := range rows {
			individuals[c] = x[i]
		}
		return individuals, nil
	case k == 1:
		individuals[rows[0]] = nActual
		return individuals, nil
	case nonzero == 1:
		for i, c := range rows {
			if x[i] > 0 {
				individuals[c] = nActual
				break
			}
		}
		return individuals, nil
	case k == 2:
		draw0 := s.Hypergeometric(x[0], x[1], nActual)
		individuals[rows[0]] = draw0
		individuals[rows[1]] = nActual - draw0
		return individuals, nil
	default:
		urnDraw(s, rows, x, nActual, individuals)
		return individuals, nil
	}
}

// urnDraw performs a sequential urn-without-replacement draw over k>=3
// compartments.
func urnDraw(s *rng.Source, rows []int, x []int, n int, individuals []int) {
	scratch := append([]int(nil), x...)
	remaining := 0
	for _, v := range scratch {
		remaining += v
	}
	for draw := 0; draw < n; draw++ {
		r := s.UniformPos() * float64(remaining)
		cum := 0.0
		chosen := len(scratch) - 1
		for i, v := range scratch {
			cum += float64(v)
			if r < cum {
				chosen = i
				break
			}
		}
		for scratch[chosen] <= 0 && chosen > 0 {
			chosen--
		}
		scratch[chosen]--
		individuals[rows[chosen]]++
		remaining--
	}
}

func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return -int(-x + 0.5)
}
