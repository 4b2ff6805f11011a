// Package model defines the plug-in contracts between the solver and a
// concrete epidemiological (or other CTMC population) model: propensity
// functions and the auxiliary-state post-step hook. Concrete models
// (SISe, SISe3, SEIR, SIR, ...) are out of scope for this module — they are
// opaque callbacks supplied by the caller. cmd/simnet ships one toy model
// purely to exercise the solver end to end.
package model

// PropensityFunc computes the instantaneous rate of one transition in one
// node. u is the node's compartment slice (length Nc), v its auxiliary
// state (length Nd), ldata its read-only local-data slice, gdata the shared
// global-data block, sd the node's sub-domain tag, and t the node-local
// simulated time. The return value must be finite and non-negative; a
// violation is a fatal INVALID_RATE error.
type PropensityFunc func(u []int, v []float64, ldata []float64, gdata []float64, sd int, t float64) float64

// PostStepFunc updates a node's auxiliary state in place after the day's
// scheduled events have been applied. vNew is writable; u, v, ldata, gdata
// are read-only. node is the node's absolute index and t the current
// (day-boundary) simulated time.
//
// Return value: >0 forces a full rate refresh for this node regardless of
// update_node; 0 refreshes only if update_node is already set by an event;
// <0 is a fatal model error and aborts the run.
type PostStepFunc func(vNew []float64, u []int, v []float64, ldata []float64, gdata []float64, node int, t float64) int

// Model bundles the per-transition propensities and the single post-step
// hook that a run needs. Implementations are plain values — no global
// state — so the same Model can drive multiple concurrent runs.
type Model interface {
	// Propensities returns one PropensityFunc per transition, in the same
	// column order as the S and G matrices (length Nt).
	Propensities() []PropensityFunc
	// PostStep returns the single auxiliary-state update hook shared by
	// every node.
	PostStep() PostStepFunc
}

// Funcs is the simplest Model implementation: a literal list of propensity
// functions plus a post-step function, for callers who don't need a richer
// type.
type Funcs struct {
	Props []PropensityFunc
	Post  PostStepFunc
}

func (f Funcs) Propensities() []PropensityFunc { return f.Props }
func (f Funcs) PostStep() PostStepFunc         { return f.Post }
