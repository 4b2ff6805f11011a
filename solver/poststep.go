package solver

import (
	"simnet/metricsutil"
	"simnet/model"
	"simnet/simerr"
)

// postStepNode invokes the model's auxiliary-state hook for one node, then
// refreshes all Nt rates if the hook demanded it or if a same-day event
// already flagged the node for update.
func postStepNode(
	post model.PostStepFunc,
	rc *rateCache, localIdx, node, nc, nd, nld, nt int,
	props []model.PropensityFunc,
	u []int, vCur, vNew, gdata []float64, ldata [][]float64, sd int, t float64,
	updateNode []int32,
	counters *metricsutil.Counters,
) error {
	uRow := u[node*nc : node*nc+nc]
	vCurRow := vCur[node*nd : node*nd+nd]
	vNewRow := vNew[node*nd : node*nd+nd]
	ld := ldata[node]

	rc2 := post(vNewRow, uRow, vCurRow, ld, gdata, node, t)
	if rc2 < 0 {
		return simerr.Wrap(simerr.AllocMemoryBuffer, "model post-step failed at node=%d t=%v", node, t)
	}

	if rc2 > 0 || updateNode[node] != 0 {
		if err := rc.initNode(localIdx, node, props, uRow, vNewRow, ld, gdata, sd, t); err != nil {
			return err
		}
		counters.RecordRateRefresh()
		counters.PeakRateSum.MaxUpdate(rc.sumRate[localIdx])
	}
	updateNode[node] = 0
	return nil
}

// fullRefresh recomputes every transition rate for a node from scratch,
// used at startup before the day loop begins.
func fullRefresh(rc *rateCache, localIdx, node int, props []model.PropensityFunc, u []int, v, ldata, gdata []float64, sd int, t float64) error {
	return rc.initNode(localIdx, node, props, u, v, ldata, gdata, sd, t)
}
