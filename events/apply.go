package events

import (
	"simnet/rng"
	"simnet/sampler"
	"simnet/simerr"
	"simnet/sparse"
)

// NodeState is the minimal view an applier needs into the shared
// compartment array: u is the whole-run Nn*Nc slice, nc the compartment
// count, so node n's row is u[n*nc : n*nc+nc].
type NodeState struct {
	U          []int
	Nc         int
	UpdateNode []int32 // shared flag vector; appliers set entries to 1
}

func (ns NodeState) row(node int) []int {
	return ns.U[node*ns.Nc : node*ns.Nc+ns.Nc]
}

// ApplyE1 applies all due (time <= tt) events from one worker's own E1
// queue against the shared u array. Only this worker's own node rows are
// touched, so no synchronization is required. q is consumed in place: the
// returned slice is the remaining (not-yet-due) tail.
func ApplyE1(s *rng.Source, e, n *sparse.CSC[int], ns NodeState, q []Event, tt float64) ([]Event, error) {
	i := 0
	for i < len(q) && q[i].Time <= tt {
		ev := q[i]
		if err := applyOne(s, e, n, ns, ev); err != nil {
			return q[i:], err
		}
		ns.UpdateNode[ev.Node] = 1
		i++
	}
	return q[i:], nil
}

// ApplyE2 applies all due events from the global E2 queue. This must only
// be invoked by the master thread while every worker is parked at a
// barrier — e2 events may write to any node's row, so running this
// concurrently with SSA/E1 would race.
func ApplyE2(s *rng.Source, e, n *sparse.CSC[int], ns NodeState, q []Event, tt float64) ([]Event, error) {
	i := 0
	for i < len(q) && q[i].Time <= tt {
		ev := q[i]
		individuals, err := sampler.Select(s, e, ev.Select, ns.row(ev.Node), ev.N, ev.Proportion)
		if err != nil {
			return q[i:], err
		}

		srcRow := ns.row(ev.Node)
		dstRow := ns.row(ev.Dest)
		for c, cnt := range individuals {
			if cnt == 0 {
				continue
			}
			shiftOffset := 0
			if ev.Shift >= 0 {
				shiftOffset = shiftAt(n, ev.Shift, c)
			}
			dc := c + shiftOffset
			if srcRow[c]-cnt < 0 {
				return q[i:], simerr.Wrap(simerr.NegativeState, "E2 exit node=%d compartment=%d", ev.Node, c)
			}
			if dstRow[dc]+cnt < 0 {
				return q[i:], simerr.Wrap(simerr.NegativeState, "E2 entry node=%d compartment=%d", ev.Dest, dc)
			}
			srcRow[c] -= cnt
			dstRow[dc] += cnt
		}

		ns.UpdateNode[ev.Node] = 1
		ns.UpdateNode[ev.Dest] = 1
		i++
	}
	return q[i:], nil
}

func applyOne(s *rng.Source, e, n *sparse.CSC[int], ns NodeState, ev Event) error {
	row := ns.row(ev.Node)

	switch ev.Kind {
	case Enter:
		rows, _ := e.Column(ev.Select)
		if len(rows) == 0 {
			return simerr.Wrap(simerr.SampleSelect, "ENTER select column %d is empty", ev.Select)
		}
		row[rows[0]] += ev.N
		return nil

	case Exit:
		individuals, err := sampler.Select(s, e, ev.Select, row, ev.N, ev.Proportion)
		if err != nil {
			return err
		}
		for c, cnt := range individuals {
			if cnt == 0 {
				continue
			}
			if row[c]-cnt < 0 {
				return simerr.Wrap(simerr.NegativeState, "EXIT node=%d compartment=%d", ev.Node, c)
			}
			row[c] -= cnt
		}
		return nil

	case InternalTransfer:
		individuals, err := sampler.Select(s, e, ev.Select, row, ev.N, ev.Proportion)
		if err != nil {
			return err
		}
		for c, cnt := range individuals {
			if cnt == 0 {
				continue
			}
			dc := c
			if ev.Shift >= 0 {
				dc = c + shiftAt(n, ev.Shift, c)
			}
			if row[c]-cnt < 0 || row[dc]+cnt < 0 {
				return simerr.Wrap(simerr.NegativeState, "INTERNAL_TRANSFER node=%d compartment=%d->%d", ev.Node, c, dc)
			}
			row[c] -= cnt
			row[dc] += cnt
		}
		return nil

	default:
		return simerr.Wrap(simerr.UndefinedEvent, "kind %v reached E1 applier", ev.Kind)
	}
}

// shiftAt returns N[shift*Nc + c], the compartment offset column `shift`
// applies to compartment c.
func shiftAt(n *sparse.CSC[int], shift, c int) int {
	rows, vals := n.Column(shift)
	for i, r := range rows {
		if r == c {
			return vals[i]
		}
	}
	return 0
}
