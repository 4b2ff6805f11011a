// Package solver implements the day-loop state machine that fuses the
// per-node SSA stepper, the scheduled-event appliers, the post-step
// driver, and trajectory output into one fork-join run across Nthread
// workers.
package solver

import (
	"math"

	"golang.org/x/sync/errgroup"

	"simnet/events"
	"simnet/metricsutil"
	"simnet/output"
	"simnet/partition"
	"simnet/rng"
)

// Result is what a completed run hands back to the caller.
type Result struct {
	Writer   output.Writer
	Counters *metricsutil.Counters
}

// Run executes the full INIT -> SPLIT_EVENTS -> DAY_LOOP -> DONE state
// machine. Any fatal error transitions straight to ERROR/CLEANUP: the loop
// stops at the next barrier and the first observed error is returned.
func Run(cfg Config) (*Result, error) {
	// --- INIT ---
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	nt := len(cfg.Model.Propensities())
	props := cfg.Model.Propensities()
	post := cfg.Model.PostStep()

	master := rng.NewMaster(cfg.Seed)
	streams := make([]*rng.Source, cfg.Nthread)
	for i := range streams {
		streams[i] = master.Child(i)
	}

	u := append([]int(nil), cfg.U0...)
	vCur := append([]float64(nil), cfg.V0...)
	vNew := make([]float64, len(cfg.V0))
	updateNode := make([]int32, cfg.Nn)

	rc := newRateCache(cfg.Nn, nt)
	counters := metricsutil.NewCounters()

	for node := 0; node < cfg.Nn; node++ {
		uRow := u[node*cfg.Nc : node*cfg.Nc+cfg.Nc]
		vRow := vCur[node*cfg.Nd : node*cfg.Nd+cfg.Nd]
		if err := fullRefresh(rc, node, node, props, uRow, vRow, cfg.LData[node], cfg.GData, cfg.SubDomain[node], cfg.Tspan[0]); err != nil {
			return nil, err
		}
		counters.PeakRateSum.MaxUpdate(rc.sumRate[node])
	}

	// --- SPLIT_EVENTS ---
	e1, e2, err := events.Partition(cfg.Events, cfg.Nn, cfg.Nthread)
	if err != nil {
		return nil, err
	}

	var writer output.Writer
	if cfg.SparseUPattern != nil || cfg.SparseVPattern != nil {
		writer = output.NewSparse(cfg.Tspan, cfg.SparseUPattern, cfg.SparseVPattern)
	} else {
		writer = output.NewDense(cfg.Tspan, cfg.Nn, cfg.Nc, cfg.Nd)
	}

	// Initial snapshot, written before the day loop starts, regardless of
	// whether tspan[0] has actually been reached yet.
	writeColumn(writer, 0, cfg.Nc, cfg.Nd, 0, cfg.Nn, u, vCur)
	if cfg.Monitor != nil {
		cfg.Monitor.Publish(0, cfg.Tspan[0], u, vCur)
	}
	uIt := 1

	tt := 0.0
	tlen := len(cfg.Tspan)

	// --- DAY_LOOP ---
	for uIt < tlen {
		nextDay := math.Floor(tt) + 1

		// Phase 1: parallel SSA + this-thread's-own E1, barrier-joined.
		var eg errgroup.Group
		for w := 0; w < cfg.Nthread; w++ {
			w := w
			eg.Go(func() error {
				lo, hi := partition.NodeRange(cfg.Nn, cfg.Nthread, w)
				stream := streams[w]
				for node := lo; node < hi; node++ {
					tNode := tt
					a := ssaArgs{
						s: stream, rc: rc, localIdx: node, node: node,
						nc: cfg.Nc, nt: nt, S: cfg.S, G: cfg.G, props: props,
						u: u, v: vCur[node*cfg.Nd : node*cfg.Nd+cfg.Nd],
						ldata: cfg.LData[node], gdata: cfg.GData, sd: cfg.SubDomain[node],
						counters: counters,
					}
					if err := stepNode(a, &tNode, nextDay); err != nil {
						return err
					}
				}

				ns := events.NodeState{U: u, Nc: cfg.Nc, UpdateNode: updateNode}
				remaining, err := events.ApplyE1(stream, cfg.E, cfg.N, ns, e1[w], nextDay)
				if err != nil {
					return err
				}
				e1[w] = remaining
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		// Phase 2: serial E2 on the master.
		ns := events.NodeState{U: u, Nc: cfg.Nc, UpdateNode: updateNode}
		remaining, err := events.ApplyE2(streams[0], cfg.E, cfg.N, ns, e2, nextDay)
		if err != nil {
			return nil, err
		}
		e2 = remaining

		// Compute the crossed tspan range once, serially, so every
		// worker's parallel write in phase 3 agrees on which columns
		// exist without any of them mutating uIt themselves.
		crossedTo := output.CrossedRange(cfg.Tspan, uIt, nextDay)

		// Phase 3: parallel post-step + rate refresh + dense output,
		// barrier-joined.
		var eg2 errgroup.Group
		for w := 0; w < cfg.Nthread; w++ {
			w := w
			eg2.Go(func() error {
				lo, hi := partition.NodeRange(cfg.Nn, cfg.Nthread, w)
				for node := lo; node < hi; node++ {
					if err := postStepNode(post, rc, node, node, cfg.Nc, cfg.Nd, cfg.Nld, nt, props, u, vCur, vNew, cfg.GData, cfg.LData, cfg.SubDomain[node], nextDay, updateNode, counters); err != nil {
						return err
					}
				}
				for col := uIt; col < crossedTo; col++ {
					writer.WriteNodeRange(col, lo, hi, cfg.Nc, cfg.Nd, u, vNew)
				}
				return nil
			})
		}
		if err := eg2.Wait(); err != nil {
			return nil, err
		}

		for col := uIt; col < crossedTo; col++ {
			writer.WriteMasterColumn(col, cfg.Nc, cfg.Nd, u, vNew)
			if cfg.Monitor != nil {
				cfg.Monitor.Publish(col, cfg.Tspan[col], u, vNew)
			}
		}
		uIt = crossedTo

		vCur, vNew = vNew, vCur
		tt = nextDay
	}

	return &Result{Writer: writer, Counters: counters}, nil
}

func writeColumn(w output.Writer, col, nc, nd, loNode, hiNode int, u []int, v []float64) {
	w.WriteNodeRange(col, loNode, hiNode, nc, nd, u, v)
	w.WriteMasterColumn(col, nc, nd, u, v)
}
