package solver

import (
	"simnet/events"
	"simnet/model"
	"simnet/simerr"
	"simnet/sparse"
)

// SnapshotSink receives a copy of each newly written trajectory column,
// purely for live observation — the monitor package implements this. A nil
// sink means "no live monitoring", the default.
type SnapshotSink interface {
	Publish(col int, t float64, u []int, v []float64)
}

// Config is the solver's entry point input, mirroring the host-facing
// parameter list: initial state, the sparse structural matrices, the
// scheduled-event stream, the plug-in model, and the run's parallelism and
// determinism knobs.
type Config struct {
	Nn, Nc, Nd, Nld int

	U0 []int     // Nn*Nc
	V0 []float64 // Nn*Nd

	Tspan []float64

	G *sparse.CSC[int] // Nt x Nt dependency graph (structural)
	S *sparse.CSC[int] // Nc x Nt stoichiometry
	E *sparse.CSC[int] // Nc x Nselect select matrix
	N *sparse.CSC[int] // Nc x Nshift shift matrix

	GData     []float64   // shared global data block
	LData     [][]float64 // per-node local data, length Nn, each length Nld
	SubDomain []int       // per-node sd tag, length Nn

	Events []events.Raw

	Model model.Model

	Nthread int
	Seed    uint64

	// SparseUPattern/SparseVPattern select sparse output mode when
	// non-nil; dense output (the default) is used when both are nil.
	SparseUPattern *sparse.CSC[float64]
	SparseVPattern *sparse.CSC[float64]

	// Monitor, if set, receives a copy of every newly written column.
	Monitor SnapshotSink
}

// validate checks the configuration errors the solver must catch before
// starting the day loop, per the configuration-error taxonomy.
func (c *Config) validate() error {
	if c.Nthread < 1 {
		return simerr.Wrap(simerr.UnsupportedParallelization, "Nthread=%d", c.Nthread)
	}
	if c.Nn <= 0 {
		return simerr.Wrap(simerr.AllocMemoryBuffer, "Nn=%d", c.Nn)
	}
	if c.Nthread > c.Nn {
		return simerr.Wrap(simerr.UnsupportedParallelization, "Nthread=%d exceeds Nn=%d", c.Nthread, c.Nn)
	}
	if len(c.U0) != c.Nn*c.Nc {
		return simerr.Wrap(simerr.AllocMemoryBuffer, "len(U0)=%d, want %d", len(c.U0), c.Nn*c.Nc)
	}
	if len(c.V0) != c.Nn*c.Nd {
		return simerr.Wrap(simerr.AllocMemoryBuffer, "len(V0)=%d, want %d", len(c.V0), c.Nn*c.Nd)
	}
	if len(c.Tspan) == 0 {
		return simerr.Wrap(simerr.AllocMemoryBuffer, "tspan is empty")
	}
	if len(c.LData) != c.Nn {
		return simerr.Wrap(simerr.AllocMemoryBuffer, "len(LData)=%d, want Nn=%d", len(c.LData), c.Nn)
	}
	if len(c.SubDomain) != c.Nn {
		return simerr.Wrap(simerr.AllocMemoryBuffer, "len(SubDomain)=%d, want Nn=%d", len(c.SubDomain), c.Nn)
	}
	return nil
}
