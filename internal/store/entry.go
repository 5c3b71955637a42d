package store

import (
	"container/list"
	"sync"

	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

// Kind distinguishes a matrix-valued entry from a scalar-valued one.
// Immutable after construction (spec invariant).
type Kind int

const (
	KindMatrix Kind = iota
	KindScalar
)

// Status is an Entry's lifecycle state.
type Status int

const (
	// StatusEmpty is a placeholder: no value yet, other producers block
	// on it instead of recomputing.
	StatusEmpty Status = iota
	// StatusCached holds a value read straight from computation.
	StatusCached
	// StatusReloaded holds a value re-read from the spill store.
	// CanEvict and the eviction walk treat it exactly like
	// StatusCached.
	StatusReloaded
	// StatusToRemove marks an entry that has left the live index; kept
	// briefly so in-flight readers of the pointer observe a consistent
	// terminal state instead of a reused struct.
	StatusToRemove
)

// Entry is one cache slot. All fields but the monitor are guarded by the
// owning Store's cache-wide mutex; the monitor guards only matrixV/
// scalarV/filled/failed/waiters and the fill-time Status transition so
// that a long-running producer does not
// hold the cache lock while a waiter parks.
type Entry struct {
	Key  lineage.Item
	Kind Kind

	// OriginKey is set when this entry's value was moved from another
	// binding's lineage during multi-output commit (spec.md §4.7).
	OriginKey lineage.Item

	ComputeTimeNs int64
	Status        Status

	// SizeBytes is the admitted in-memory footprint, valid once Status
	// is CACHED or RELOADED.
	SizeBytes int64

	// elem is this entry's position in the owning Store's LRU list.
	// Store-private; protected by the cache mutex.
	elem *list.Element

	mu       sync.Mutex
	cond     *sync.Cond
	filled   bool
	failed   bool
	waiters  int
	matrixV  matrix.Block
	scalarV  matrix.Scalar
}

// NewPlaceholder creates an EMPTY entry for key.
func NewPlaceholder(key lineage.Item, kind Kind) *Entry {
	e := &Entry{Key: key, Kind: kind, Status: StatusEmpty}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// CanEvict reports whether the entry's status permits eviction: it must
// not be an EMPTY placeholder, and no thread may currently be parked on
// its monitor (spec invariant 7).
func (e *Entry) CanEvict() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Status != StatusEmpty && e.waiters == 0
}

// SetMatrix fills a MATRIX placeholder, transitions to CACHED, and wakes
// every waiter. computeTimeNs is the wall time the producer took.
func (e *Entry) SetMatrix(block matrix.Block, computeTimeNs int64) {
	e.mu.Lock()
	e.matrixV = block
	e.ComputeTimeNs = computeTimeNs
	e.Status = StatusCached
	e.filled = true
	e.cond.Broadcast()
	e.mu.Unlock()
}

// SetScalar fills a SCALAR placeholder analogously to SetMatrix.
func (e *Entry) SetScalar(scalar matrix.Scalar, computeTimeNs int64) {
	e.mu.Lock()
	e.scalarV = scalar
	e.ComputeTimeNs = computeTimeNs
	e.Status = StatusCached
	e.filled = true
	e.cond.Broadcast()
	e.mu.Unlock()
}

// markReloaded is used by the store when re-inserting a spill hit; the
// value is already known so no wait is needed. The entry is marked
// RELOADED, which the eviction walk does not distinguish from CACHED.
func (e *Entry) markReloaded(block matrix.Block, computeTimeNs int64) {
	e.mu.Lock()
	e.matrixV = block
	e.ComputeTimeNs = computeTimeNs
	e.Status = StatusReloaded
	e.filled = true
	e.cond.Broadcast()
	e.mu.Unlock()
}

// Fail wakes every waiter with a negative outcome instead of a value.
// Used by the corrected negative-admission path (DESIGN.md open
// question 2): a placeholder that can never be filled must not leave
// its waiters parked forever.
func (e *Entry) Fail() {
	e.mu.Lock()
	e.failed = true
	e.cond.Broadcast()
	e.mu.Unlock()
}

// GetMatrix blocks until the entry is filled or failed, then returns the
// value. There is no cancellation (spec.md §5): a waiter stays parked
// until the entry is filled or failed. The bool is false when the entry
// was failed.
func (e *Entry) GetMatrix() (matrix.Block, bool) {
	e.mu.Lock()
	e.waiters++
	for !e.filled && !e.failed {
		e.cond.Wait()
	}
	e.waiters--
	v, failed := e.matrixV, e.failed
	e.mu.Unlock()
	return v, !failed
}

// GetScalar is GetMatrix's scalar counterpart.
func (e *Entry) GetScalar() (matrix.Scalar, bool) {
	e.mu.Lock()
	e.waiters++
	for !e.filled && !e.failed {
		e.cond.Wait()
	}
	e.waiters--
	v, failed := e.scalarV, e.failed
	e.mu.Unlock()
	return v, !failed
}

// RewireKey returns OriginKey if this entry's value was moved from
// another lineage item during multi-output commit, otherwise the key it
// was looked up under. Used by the multi-output coordinator to rewire a
// caller's bound-name lineage to the original producer (spec.md §4.7).
func (e *Entry) RewireKey() lineage.Item {
	if e.OriginKey != nil {
		return e.OriginKey
	}
	return e.Key
}

// Filled reports whether the entry already holds a value, without
// blocking.
func (e *Entry) Filled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filled
}

// MatrixValue returns the current matrix value without blocking; used
// by the eviction walk, which only ever considers entries that are
// already filled (CanEvict excludes EMPTY placeholders).
func (e *Entry) MatrixValue() matrix.Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matrixV
}

// ScalarValue returns the current scalar value without blocking.
func (e *Entry) ScalarValue() matrix.Scalar {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scalarV
}
