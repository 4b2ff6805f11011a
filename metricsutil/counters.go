package metricsutil

import "sync/atomic"

// Counters aggregates the solver's run-level diagnostics: how close rate
// drift came to corrupting state, without ever taking a lock.
type Counters struct {
	PeakRateSum *Float64
	NilEvents   atomic.Int64 // backward-scan-to-nonzero-rate collapses (drift recovery)
	RateRefresh atomic.Int64 // number of full per-node rate recomputations
}

// NewCounters returns a zeroed Counters ready for concurrent use.
func NewCounters() *Counters {
	return &Counters{PeakRateSum: NewFloat64(0)}
}

func (c *Counters) RecordNilEvent() { c.NilEvents.Add(1) }

func (c *Counters) RecordRateRefresh() { c.RateRefresh.Add(1) }
