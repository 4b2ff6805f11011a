package solver

import (
	"math"

	"simnet/model"
	"simnet/simerr"
	"simnet/sparse"
)

// rateCache holds the per-node, per-transition rate cache and its
// maintained per-node sum.
type rateCache struct {
	nt      int
	tRate   []float64 // node*Nt + tr
	sumRate []float64 // node
}

func newRateCache(nnThread, nt int) *rateCache {
	return &rateCache{
		nt:      nt,
		tRate:   make([]float64, nnThread*nt),
		sumRate: make([]float64, nnThread),
	}
}

// checkRate validates a freshly computed propensity value, per the
// INVALID_RATE contract: must be finite and non-negative.
func checkRate(node, tr int, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return simerr.Wrap(simerr.InvalidRate, "node=%d transition=%d rate=%v", node, tr, rate)
	}
	return nil
}

// initNode computes every transition's rate for one node from scratch and
// sets the cache's sum, used at startup and whenever a node is flagged for
// a full refresh.
func (rc *rateCache) initNode(localIdx, node int, props []model.PropensityFunc, u []int, v, ldata, gdata []float64, sd int, t float64) error {
	base := localIdx * rc.nt
	sum := 0.0
	for tr, fn := range props {
		rate := fn(u, v, ldata, gdata, sd, t)
		if err := checkRate(node, tr, rate); err != nil {
			return err
		}
		rc.tRate[base+tr] = rate
		sum += rate
	}
	rc.sumRate[localIdx] = sum
	return nil
}

// refreshDeps walks the dependency-graph column for the transition that
// just fired and recomputes every transition it lists, accumulating the
// net change into sumRate. This is the sparse filter that makes rate
// maintenance O(|deps|) instead of O(Nt) per SSA micro-step.
func (rc *rateCache) refreshDeps(localIdx, node, firedTr int, g *sparse.CSC[int], props []model.PropensityFunc, u []int, v, ldata, gdata []float64, sd int, t float64) error {
	base := localIdx * rc.nt
	rows, _ := g.Column(firedTr)
	delta := 0.0
	for _, tr := range rows {
		oldRate := rc.tRate[base+tr]
		newRate := props[tr](u, v, ldata, gdata, sd, t)
		if err := checkRate(node, tr, newRate); err != nil {
			return err
		}
		rc.tRate[base+tr] = newRate
		delta += newRate - oldRate
	}
	rc.sumRate[localIdx] += delta
	// Floating point drift can push the running sum fractionally below
	// zero even though every individual rate is non-negative; clamp so a
	// subsequent sum_t_rate<=0 check behaves as intended rather than
	// treating drift as "there are still events to fire".
	if rc.sumRate[localIdx] < 0 {
		rc.sumRate[localIdx] = 0
	}
	return nil
}
