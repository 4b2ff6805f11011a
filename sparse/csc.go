// Package sparse provides read-only column-compressed (CSC) matrix views.
//
// A single representation covers every sparse input the solver consumes: the
// transition dependency graph G, the stoichiometry matrix S, the event
// select matrix E, the shift matrix N, and the optional sparse output
// patterns for U/V. Callers hand in (ir, jc[, pr]) slices; the view copies
// them into owned buffers so its lifetime is independent of the caller's.
package sparse

import "fmt"

// CSC is a column-compressed matrix view with integer row indices and
// values of type T. T is int for stoichiometry/select/shift matrices and
// float64 for rate-bearing or value-bearing output patterns. When a matrix
// is purely structural (the dependency graph G), pr is left nil and
// columns are iterated by row index alone.
type CSC[T any] struct {
	nrow, ncol int
	ir         []int // row indices, length jc[ncol]
	jc         []int // column pointers, length ncol+1
	pr         []T   // optional values, same length as ir, or nil
}

// New builds an owned CSC view from caller-supplied slices. jc must have
// length ncol+1 and be non-decreasing; ir entries must lie in [0,nrow). pr,
// if non-nil, must be the same length as ir.
func New[T any](nrow, ncol int, ir, jc []int, pr []T) (*CSC[T], error) {
	if nrow < 0 || ncol < 0 {
		return nil, fmt.Errorf("sparse: negative dimension (%d,%d)", nrow, ncol)
	}
	if len(jc) != ncol+1 {
		return nil, fmt.Errorf("sparse: jc length %d, want %d", len(jc), ncol+1)
	}
	for c := 0; c < ncol; c++ {
		if jc[c] > jc[c+1] {
			return nil, fmt.Errorf("sparse: jc not non-decreasing at column %d", c)
		}
	}
	nnz := jc[ncol]
	if len(ir) < nnz {
		return nil, fmt.Errorf("sparse: ir length %d shorter than nnz %d", len(ir), nnz)
	}
	for _, r := range ir[:nnz] {
		if r < 0 || r >= nrow {
			return nil, fmt.Errorf("sparse: row index %d out of range [0,%d)", r, nrow)
		}
	}
	if pr != nil && len(pr) < nnz {
		return nil, fmt.Errorf("sparse: pr length %d shorter than nnz %d", len(pr), nnz)
	}

	cp := &CSC[T]{
		nrow: nrow,
		ncol: ncol,
		ir:   append([]int(nil), ir[:nnz]...),
		jc:   append([]int(nil), jc...),
	}
	if pr != nil {
		cp.pr = append([]T(nil), pr[:nnz]...)
	}
	return cp, nil
}

// Dims returns (rows, cols).
func (m *CSC[T]) Dims() (int, int) { return m.nrow, m.ncol }

// NNZ returns the number of structurally nonzero entries.
func (m *CSC[T]) NNZ() int { return len(m.ir) }

// Column returns the row indices and (if present) values for column j, as
// slices into the view's owned buffers. Callers must not mutate the result.
func (m *CSC[T]) Column(j int) (rows []int, vals []T) {
	lo, hi := m.jc[j], m.jc[j+1]
	rows = m.ir[lo:hi]
	if m.pr != nil {
		vals = m.pr[lo:hi]
	}
	return rows, vals
}

// ColumnLen returns the number of nonzero entries in column j.
func (m *CSC[T]) ColumnLen(j int) int {
	return m.jc[j+1] - m.jc[j]
}

// ColumnStart returns jc[j], the offset of column j's first entry within
// the flattened ir/pr buffers. Useful for writing into a separately
// allocated parallel buffer indexed the same way (output.SparseWriter).
func (m *CSC[T]) ColumnStart(j int) int {
	return m.jc[j]
}

// HasValues reports whether this view carries a value array (false for
// purely structural matrices such as the dependency graph G).
func (m *CSC[T]) HasValues() bool { return m.pr != nil }
