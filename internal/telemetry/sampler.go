package telemetry

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	hits        uint64
	misses      uint64
	fsWrites    uint64
	fsReads     uint64
	deletedHits uint64
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If a counter appears to have reset (cur < prev), the current value is
// used as the delta rather than underflowing.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		hits:        delta(prev.hits, cur.hits),
		misses:      delta(prev.misses, cur.misses),
		fsWrites:    delta(prev.fsWrites, cur.fsWrites),
		fsReads:     delta(prev.fsReads, cur.fsReads),
		deletedHits: delta(prev.deletedHits, cur.deletedHits),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
