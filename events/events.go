// Package events decodes the host's scheduled-event stream, partitions it
// into per-worker E1 queues (intra-node events) and a single global E2
// queue (cross-node transfers), and applies due events at each day
// boundary.
package events

import (
	"simnet/partition"
	"simnet/simerr"
)

// Kind enumerates the scheduled-event kinds, numerically matching the
// wire-level event_kind encoding.
type Kind int

const (
	Exit Kind = iota
	Enter
	InternalTransfer
	ExternalTransfer
)

// Raw is a scheduled event exactly as the host supplies it: one-based node,
// dest, select and shift indices. shift <= 0 means "no shift".
type Raw struct {
	Kind       int
	Time       float64
	Node       int
	Dest       int
	N          int
	Proportion float64
	Select     int
	Shift      int
}

// Event is a decoded, zero-based scheduled event ready for application.
// Shift of -1 is the "no shift" sentinel.
type Event struct {
	Kind       Kind
	Time       float64
	Node       int
	Dest       int
	N          int
	Proportion float64
	Select     int
	Shift      int
}

func decode(r Raw) (Event, error) {
	var k Kind
	switch r.Kind {
	case 0:
		k = Exit
	case 1:
		k = Enter
	case 2:
		k = InternalTransfer
	case 3:
		k = ExternalTransfer
	default:
		return Event{}, simerr.Wrap(simerr.UndefinedEvent, "event_kind %d", r.Kind)
	}

	shift := -1
	if r.Shift > 0 {
		shift = r.Shift - 1
	}

	return Event{
		Kind:       k,
		Time:       r.Time,
		Node:       r.Node - 1,
		Dest:       r.Dest - 1,
		N:          r.N,
		Proportion: r.Proportion,
		Select:     r.Select - 1,
		Shift:      shift,
	}, nil
}

// Partition splits a sorted-by-time raw event stream into nthread E1
// queues (one per worker, partitioned by node using partition.WorkerFor so
// that an E1 event and the SSA writes for its node always run on the same
// worker) and a single E2 queue for EXTERNAL_TRANSFER events. Each output
// queue preserves the input's relative order, so both remain sorted by
// time.
//
// Two-pass: the first pass counts destinations so each queue can be
// allocated to its exact length, the second pass writes into the
// preallocated slices. This avoids the reallocation churn of repeated
// append calls over what can be a very long event stream.
func Partition(raw []Raw, nn, nthread int) (e1 [][]Event, e2 []Event, err error) {
	e1Count := make([]int, nthread)
	e2Count := 0

	for _, r := range raw {
		switch r.Kind {
		case 0, 1, 2:
			w := workerForRaw(r.Node, nn, nthread)
			e1Count[w]++
		case 3:
			e2Count++
		default:
			return nil, nil, simerr.Wrap(simerr.UndefinedEvent, "event_kind %d", r.Kind)
		}
	}

	e1 = make([][]Event, nthread)
	for w := range e1 {
		e1[w] = make([]Event, 0, e1Count[w])
	}
	e2 = make([]Event, 0, e2Count)

	for _, r := range raw {
		ev, derr := decode(r)
		if derr != nil {
			return nil, nil, derr
		}
		switch ev.Kind {
		case ExternalTransfer:
			e2 = append(e2, ev)
		default:
			w := workerForRaw(r.Node, nn, nthread)
			e1[w] = append(e1[w], ev)
		}
	}

	return e1, e2, nil
}

// workerForRaw assigns a one-based raw event's node to the worker that
// owns it under the shared partition.WorkerFor function (see the package
// doc comment on partition for why this must match the SSA assignment).
func workerForRaw(nodeOneBased, nn, nthread int) int {
	return partition.WorkerFor(nodeOneBased-1, nn, nthread)
}
