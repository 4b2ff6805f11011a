// Package partition implements the single node-to-worker assignment
// function shared by the SSA stepper and the scheduled-event partitioner.
// The event partitioner and the SSA stepper must agree on which worker
// owns which node; this module resolves that by giving both call sites
// one shared function, which is the only way to guarantee the "no
// cross-thread u writes for E1" invariant in all cases, including when
// Nn % Nthread != 0.
package partition

// ChunkSize returns Nn/Nthread, the size every worker but the last gets.
func ChunkSize(nn, nthread int) int {
	if nthread <= 0 {
		return 0
	}
	return nn / nthread
}

// NodeRange returns the half-open node index range [lo, hi) owned by
// worker i of nthread, for a node space of size nn. The last worker
// absorbs the remainder nn % nthread.
func NodeRange(nn, nthread, i int) (lo, hi int) {
	chunk := ChunkSize(nn, nthread)
	lo = i * chunk
	if i == nthread-1 {
		hi = nn
	} else {
		hi = lo + chunk
	}
	return lo, hi
}

// WorkerFor returns which worker owns a given zero-based node index, the
// inverse of NodeRange. Used by the event partitioner so that E1 events
// land in the same worker's queue as the SSA writes for that node.
//
// This mirrors the source's "(node-1)/chunk_size, clamped" formula but
// operates on zero-based node indices and a shared chunk size, so it
// agrees with NodeRange whenever nn % nthread == 0, and — because both use
// the same clamp-to-last-worker rule — also when it doesn't.
func WorkerFor(node, nn, nthread int) int {
	if nthread <= 0 {
		return 0
	}
	chunk := ChunkSize(nn, nthread)
	if chunk <= 0 {
		return nthread - 1
	}
	w := node / chunk
	if w >= nthread {
		w = nthread - 1
	}
	return w
}
