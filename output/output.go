// Package output materializes the simulated trajectory into caller-provided
// buffers, dense or sparse.
package output

import "simnet/sparse"

// Writer is implemented by both the dense and the sparse trajectory
// writer. WriteNodeRange is invoked once per crossed tspan column, once
// per worker, for that worker's own node range — meaningful only for the
// dense writer, since only dense output can be split by node range without
// synchronization. WriteMasterColumn is invoked once per crossed column,
// serially on the master thread after the parallel phase's barrier —
// meaningful only for the sparse writer, whose caller-supplied sparsity
// pattern must be walked as a whole.
type Writer interface {
	Tspan() []float64
	WriteNodeRange(col, loNode, hiNode, nc, nd int, u []int, v []float64)
	WriteMasterColumn(col, nc, nd int, u []int, v []float64)
}

// CrossedRange returns the half-open [from, to) range of tspan indices
// whose report time is <= boundary, starting the scan at from. Both
// writers use this so the crossed-column scan is computed identically
// regardless of output mode.
func CrossedRange(tspan []float64, from int, boundary float64) (to int) {
	to = from
	for to < len(tspan) && tspan[to] <= boundary {
		to++
	}
	return to
}

// DenseWriter copies whole compartment/auxiliary rows into caller-owned
// dense buffers, column-major: column t of U occupies
// U[t*Nn*Nc : (t+1)*Nn*Nc], and similarly for V with Nd.
type DenseWriter struct {
	tspan []float64
	Nn    int
	U     []int
	V     []float64
}

// NewDense allocates a dense trajectory for nn nodes (nc compartments, nd
// auxiliary reals) over the given report times.
func NewDense(tspan []float64, nn, nc, nd int) *DenseWriter {
	tlen := len(tspan)
	return &DenseWriter{
		tspan: tspan,
		Nn:    nn,
		U:     make([]int, tlen*nn*nc),
		V:     make([]float64, tlen*nn*nd),
	}
}

func (w *DenseWriter) Tspan() []float64 { return w.tspan }

func (w *DenseWriter) WriteNodeRange(col, loNode, hiNode, nc, nd int, u []int, v []float64) {
	uBase := col*w.Nn*nc + loNode*nc
	copy(w.U[uBase:uBase+(hiNode-loNode)*nc], u[loNode*nc:hiNode*nc])
	vBase := col*w.Nn*nd + loNode*nd
	copy(w.V[vBase:vBase+(hiNode-loNode)*nd], v[loNode*nd:hiNode*nd])
}

func (w *DenseWriter) WriteMasterColumn(col, nc, nd int, u []int, v []float64) {
	// Dense columns are fully covered by the per-worker WriteNodeRange
	// calls; nothing left for the master to do.
}

// SparsePattern describes, per tspan column, which flattened (node*Nc+c)
// or (node*Nd+d) slots to write, as CSC columns over the tlen "columns"
// axis: jc has length tlen+1, ir holds the flattened u/v indices to copy
// for each report column.
type SparsePattern struct {
	Ir []int
	Jc []int
}

// SparseWriter writes only the caller-nominated entries of u/v into pr
// buffers, at each crossed report column. Must only be driven by the
// master thread: sparse output is serial and master-only.
type SparseWriter struct {
	tspan              []float64
	patternU, patternV *sparse.CSC[float64]
	PrU, PrV           []float64
}

// NewSparse builds a sparse writer from caller-supplied sparsity patterns.
// patternU/patternV may be nil to skip that output entirely.
func NewSparse(tspan []float64, patternU, patternV *sparse.CSC[float64]) *SparseWriter {
	w := &SparseWriter{tspan: tspan, patternU: patternU, patternV: patternV}
	if patternU != nil {
		w.PrU = make([]float64, patternU.NNZ())
	}
	if patternV != nil {
		w.PrV = make([]float64, patternV.NNZ())
	}
	return w
}

func (w *SparseWriter) Tspan() []float64 { return w.tspan }

func (w *SparseWriter) WriteNodeRange(col, loNode, hiNode, nc, nd int, u []int, v []float64) {
	// Sparse output is master-only; nothing to do in the parallel phase.
}

func (w *SparseWriter) WriteMasterColumn(col, nc, nd int, u []int, v []float64) {
	if w.patternU != nil {
		rows, _ := w.patternU.Column(col)
		start := w.patternU.ColumnStart(col)
		for i, idx := range rows {
			w.PrU[start+i] = float64(u[idx])
		}
	}
	if w.patternV != nil {
		rows, _ := w.patternV.Column(col)
		start := w.patternV.ColumnStart(col)
		for i, idx := range rows {
			w.PrV[start+i] = v[idx]
		}
	}
}
