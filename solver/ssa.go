package solver

import (
	"simnet/metricsutil"
	"simnet/model"
	"simnet/rng"
	"simnet/simerr"
	"simnet/sparse"
)

// ssaArgs bundles everything one node's Direct-Method step needs, so the
// stepper's signature doesn't balloon as the model grows.
type ssaArgs struct {
	s        *rng.Source
	rc       *rateCache
	localIdx int
	node     int
	nc, nt   int
	S, G     *sparse.CSC[int]
	props    []model.PropensityFunc
	u        []int // the whole run's compartment array
	v        []float64
	ldata    []float64
	gdata    []float64
	sd       int
	counters *metricsutil.Counters
}

// stepNode advances one node from tTime to nextDay using the Gillespie
// Direct Method, applying stoichiometry and refreshing dependent rates in
// place. v, ldata, gdata are the node's own slices (already offset); u is the
// whole run's compartment array, offset by node here.
func stepNode(a ssaArgs, tTime *float64, nextDay float64) error {
	for {
		sum := a.rc.sumRate[a.localIdx]
		if sum <= 0 {
			*tTime = nextDay
			return nil
		}

		tau := a.s.Exponential(sum)
		if *tTime+tau >= nextDay {
			*tTime = nextDay
			return nil
		}
		*tTime += tau

		r := a.s.UniformPos() * sum
		tr := chooseTransition(a.rc, a.localIdx, a.nt, r)

		base := a.localIdx * a.nt
		if a.rc.tRate[base+tr] == 0 {
			tr = walkBackwardNonzero(a.rc, a.localIdx, a.nt, tr)
			if tr < 0 {
				a.rc.sumRate[a.localIdx] = 0
				a.counters.RecordNilEvent()
				continue
			}
		}

		if err := applyStoichiometry(a.S, tr, a.node, a.nc, a.u); err != nil {
			return err
		}

		if err := a.rc.refreshDeps(a.localIdx, a.node, tr, a.G, a.props, a.u[a.node*a.nc:a.node*a.nc+a.nc], a.v, a.ldata, a.gdata, a.sd, *tTime); err != nil {
			return err
		}
	}
}

// chooseTransition linearly scans cumulative rates for the transition
// whose band contains r, clamping to Nt-1 on floating point overrun.
func chooseTransition(rc *rateCache, localIdx, nt int, r float64) int {
	base := localIdx * nt
	cum := 0.0
	for tr := 0; tr < nt; tr++ {
		cum += rc.tRate[base+tr]
		if cum >= r {
			return tr
		}
	}
	return nt - 1
}

// walkBackwardNonzero finds the nearest nonzero rate at or before tr,
// recovering from the case where floating point drift selected a
// transition whose cached rate has decayed to exactly zero. Returns -1 if
// every rate from tr down to 0 is zero.
func walkBackwardNonzero(rc *rateCache, localIdx, nt, tr int) int {
	base := localIdx * nt
	for i := tr; i >= 0; i-- {
		if rc.tRate[base+i] != 0 {
			return i
		}
	}
	return -1
}

// applyStoichiometry applies S's column tr to node's compartment row,
// aborting with NEGATIVE_STATE if any resulting count would go negative.
func applyStoichiometry(s *sparse.CSC[int], tr, node, nc int, u []int) error {
	rows, vals := s.Column(tr)
	base := node * nc
	for i, c := range rows {
		next := u[base+c] + vals[i]
		if next < 0 {
			return simerr.Wrap(simerr.NegativeState, "node=%d compartment=%d transition=%d", node, c, tr)
		}
		u[base+c] = next
	}
	return nil
}
