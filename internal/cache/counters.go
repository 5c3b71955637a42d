package cache

import "sync/atomic"

// Counters is the Statistics Hooks component (C9): purely observational
// atomic counters with no effect on correctness, mirroring the
// teacher's internal/cache/counters.go shape.
type Counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	fsWrites    atomic.Int64
	fsReads     atomic.Int64
	deletedHits atomic.Int64
}

// NewCounters returns a zeroed Counters.
func NewCounters() *Counters { return &Counters{} }

// RecordHit counts a try_reuse call that returned true.
func (c *Counters) RecordHit() { c.hits.Add(1) }

// RecordMiss counts a try_reuse call that installed a fresh placeholder
// (the caller must execute and call put).
func (c *Counters) RecordMiss() { c.misses.Add(1) }

// RecordFSWrite implements store.StatsRecorder: a spill write completed.
func (c *Counters) RecordFSWrite() { c.fsWrites.Add(1) }

// RecordFSRead implements store.StatsRecorder: a spill reload completed.
func (c *Counters) RecordFSRead() { c.fsReads.Add(1) }

// RecordDeletedHit implements store.StatsRecorder: a probe missed a key
// that is in the removed-set (would have been a hit before eviction).
func (c *Counters) RecordDeletedHit() { c.deletedHits.Add(1) }

// Snapshot returns the current cumulative counter values.
func (c *Counters) Snapshot() (hits, misses, fsWrites, fsReads, deletedHits int64) {
	return c.hits.Load(), c.misses.Load(), c.fsWrites.Load(), c.fsReads.Load(), c.deletedHits.Load()
}
