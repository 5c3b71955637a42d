// Package store implements the cache-wide-mutex residency layer: the
// in-memory index, the spill store, admission/sizing, the cost-based
// eviction walk, and the bandwidth estimator (components C2-C6 of the
// design). A single mutex guards every field below. Each Entry's own
// monitor (entry.go) may be acquired while the store's mutex is held,
// never the reverse; a waiter parks on it with the store's mutex
// released.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

var (
	// ErrNotFound is returned by GetMatrix when the key is reachable
	// in neither the in-memory map nor the spill store.
	ErrNotFound = errors.New("store: key not found")
	// ErrFailed is returned to a waiter whose placeholder was woken
	// with a negative outcome instead of a value.
	ErrFailed = errors.New("store: placeholder failed")
	// ErrNegativeAdmission is returned by Fill/Move when a value cannot
	// be admitted even after a full eviction pass.
	ErrNegativeAdmission = errors.New("store: negative admission")
)

// StatsRecorder receives store-level I/O and removed-set observations.
// internal/cache.Counters implements this; it is optional (nil is
// valid and disables the hooks, matching the teacher's nil-disables-
// subsystem config idiom).
type StatsRecorder interface {
	RecordFSWrite()
	RecordFSRead()
	RecordDeletedHit()
}

type spillRecord struct {
	key           lineage.Item
	path          string
	computeTimeNs int64
}

// Store is the residency layer. Exactly one instance backs a cache
// handle (spec.md §9: expose it explicitly, not as process-wide state).
type Store struct {
	mu sync.Mutex

	cfg   Config
	log   zerolog.Logger
	stats StatsRecorder

	items map[uint64][]*Entry
	spill map[uint64][]*spillRecord
	// removed is the removed-set: every key ever evicted, kept only to
	// attribute "would-have-been-a-hit" statistics (spec.md §3).
	removed map[uint64]struct{}

	lru        *lruIndex
	cacheBytes int64

	bw    *bandwidthEstimator
	files *localFileUtils
}

// New constructs an empty Store. stats may be nil.
func New(cfg Config, stats StatsRecorder, log zerolog.Logger) *Store {
	return &Store{
		cfg:     cfg,
		log:     log,
		stats:   stats,
		items:   make(map[uint64][]*Entry),
		spill:   make(map[uint64][]*spillRecord),
		removed: make(map[uint64]struct{}),
		lru:     newLRUIndex(),
		bw:      newBandwidthEstimator(),
		files:   newLocalFileUtils(cfg.WorkDir),
	}
}

// CacheBytes reports the current in-memory footprint.
func (s *Store) CacheBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cacheBytes
}

// CacheLimit reports CACHE_LIMIT.
func (s *Store) CacheLimit() int64 { return s.cfg.CacheLimitBytes }

// Probe is the public, non-binding presence check (spec.md §6): it
// never installs a placeholder and never reloads from spill. Its only
// side effect is the removed-set statistic.
func (s *Store) Probe(key lineage.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.findLocked(key); ok {
		return e.Filled()
	}
	if _, _, ok := s.findSpillLocked(key); ok {
		return true
	}
	if s.stats != nil && s.inRemovedLocked(key) {
		s.stats.RecordDeletedHit()
	}
	return false
}

// Reserved reports whether key occupies a slot in the in-memory map,
// regardless of whether that slot is still an EMPTY placeholder or
// already CACHED. Unlike Probe (value-readiness), this is membership
// only: the multi-output commit phase (spec.md §4.7) uses it to check
// that a placeholder it installed during the probe phase is still the
// one present, before moving a value into it.
func (s *Store) Reserved(key lineage.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.findLocked(key)
	return ok
}

// Lookup implements the FULL/MULTILEVEL "probe the key, on hit grab the
// entry" half of §4.1 step 4: an in-memory hit is touched and returned;
// a spill hit is reloaded synchronously and returned; a miss installs
// nothing. Callers that need the full probe-or-install protocol should
// use LookupOrInstall or Install.
func (s *Store) Lookup(key lineage.Item) (entry *Entry, hit bool) {
	s.mu.Lock()
	if e, ok := s.findLocked(key); ok {
		s.lru.touch(e)
		s.mu.Unlock()
		return e, true
	}
	if rec, idx, ok := s.findSpillLocked(key); ok {
		e, err := s.reloadLocked(rec, idx)
		s.mu.Unlock()
		if err != nil {
			s.log.Error().Err(err).Msg("reload from spill failed")
			return nil, false
		}
		return e, true
	}
	s.mu.Unlock()
	return nil, false
}

// Install installs a fresh EMPTY placeholder at key unless an entry is
// already present there, in which case the existing entry is returned
// with present=true: "concurrent producers... second producer observes
// its key already present and returns without reinserting" (spec.md
// §4.1 error conditions).
func (s *Store) Install(key lineage.Item, kind Kind) (entry *Entry, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.findLocked(key); ok {
		s.lru.touch(e)
		return e, true
	}
	e := NewPlaceholder(key, kind)
	s.addLocked(e)
	return e, false
}

// LookupOrInstall implements the combined probe/grab/install step of
// §4.1: an in-memory or spill hit is returned as a hit; otherwise a
// fresh EMPTY placeholder is installed at the head and returned as a
// miss.
func (s *Store) LookupOrInstall(key lineage.Item, kind Kind) (entry *Entry, hit bool) {
	if e, ok := s.Lookup(key); ok {
		return e, true
	}
	return s.Install(key, kind)
}

// GetMatrix is the standalone blocking accessor (spec.md §6): it locates
// the entry (reloading from spill if necessary) and blocks on its
// monitor. A key reachable in neither map is ErrNotFound.
func (s *Store) GetMatrix(key lineage.Item) (matrix.Block, error) {
	s.mu.Lock()
	if e, ok := s.findLocked(key); ok {
		s.lru.touch(e)
		s.mu.Unlock()
		v, ok := e.GetMatrix()
		if !ok {
			return nil, ErrFailed
		}
		return v, nil
	}
	if rec, idx, ok := s.findSpillLocked(key); ok {
		e, err := s.reloadLocked(rec, idx)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		v, ok := e.GetMatrix()
		if !ok {
			return nil, ErrFailed
		}
		return v, nil
	}
	s.mu.Unlock()
	return nil, ErrNotFound
}

// FillMatrix fills the placeholder at key (put, spec.md §4.1) and
// admits it, evicting if necessary. ErrNegativeAdmission leaves the
// placeholder removed and its waiters woken with failure.
func (s *Store) FillMatrix(key lineage.Item, block matrix.Block, computeTimeNs int64) error {
	return s.fillMatrix(key, key, block, computeTimeNs)
}

// MoveMatrixInto fills the placeholder at key with a value originally
// produced under originKey (multi-output commit's "move" semantics,
// spec.md §4.7), recording OriginKey for lineage rewiring.
func (s *Store) MoveMatrixInto(key, originKey lineage.Item, block matrix.Block, computeTimeNs int64) error {
	return s.fillMatrix(key, originKey, block, computeTimeNs)
}

func (s *Store) fillMatrix(key, originKey lineage.Item, block matrix.Block, computeTimeNs int64) error {
	s.mu.Lock()
	e, ok := s.findLocked(key)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	size := block.InMemorySize()
	if !s.admitLocked(size) {
		s.removeFromBucketLocked(e)
		s.lru.unlink(e)
		s.mu.Unlock()
		e.Fail()
		return ErrNegativeAdmission
	}
	if !originKey.Equal(key) {
		e.OriginKey = originKey
	}
	e.SetMatrix(block, computeTimeNs)
	e.SizeBytes = size
	s.cacheBytes += size
	s.lru.touch(e)
	s.mu.Unlock()
	return nil
}

// FillScalar is FillMatrix's scalar counterpart. Scalars are never
// spilled (spec.md §4.5) but still participate in admission and sizing.
func (s *Store) FillScalar(key lineage.Item, scalar matrix.Scalar, computeTimeNs int64) error {
	return s.fillScalar(key, key, scalar, computeTimeNs)
}

func (s *Store) MoveScalarInto(key, originKey lineage.Item, scalar matrix.Scalar, computeTimeNs int64) error {
	return s.fillScalar(key, originKey, scalar, computeTimeNs)
}

func (s *Store) fillScalar(key, originKey lineage.Item, scalar matrix.Scalar, computeTimeNs int64) error {
	s.mu.Lock()
	e, ok := s.findLocked(key)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	size := scalar.InMemorySize()
	if !s.admitLocked(size) {
		s.removeFromBucketLocked(e)
		s.lru.unlink(e)
		s.mu.Unlock()
		e.Fail()
		return ErrNegativeAdmission
	}
	if !originKey.Equal(key) {
		e.OriginKey = originKey
	}
	e.SetScalar(scalar, computeTimeNs)
	e.SizeBytes = size
	s.cacheBytes += size
	s.lru.touch(e)
	s.mu.Unlock()
	return nil
}

// RemovePlaceholder discards an EMPTY entry at key and wakes its
// waiters with failure. Used to abort a multi-output installation when
// the commit phase decides to roll back (spec.md §4.7).
func (s *Store) RemovePlaceholder(key lineage.Item) {
	s.mu.Lock()
	e, ok := s.findLocked(key)
	if ok && e.Status == StatusEmpty {
		s.removeFromBucketLocked(e)
		s.lru.unlink(e)
	} else {
		ok = false
	}
	s.mu.Unlock()
	if ok {
		e.Fail()
	}
}

// Reset clears every structure to its initial empty state (spec.md §3).
// Spill files are orphaned intentionally; cleanup is the caller's
// responsibility (spec.md §5).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[uint64][]*Entry)
	s.spill = make(map[uint64][]*spillRecord)
	s.removed = make(map[uint64]struct{})
	s.lru = newLRUIndex()
	s.cacheBytes = 0
}

// --- internals, all assume s.mu held ---

func (s *Store) findLocked(key lineage.Item) (*Entry, bool) {
	for _, e := range s.items[key.Hash()] {
		if e.Key.Equal(key) {
			return e, true
		}
	}
	return nil, false
}

func (s *Store) findSpillLocked(key lineage.Item) (*spillRecord, int, bool) {
	for i, r := range s.spill[key.Hash()] {
		if r.key.Equal(key) {
			return r, i, true
		}
	}
	return nil, 0, false
}

func (s *Store) inRemovedLocked(key lineage.Item) bool {
	_, ok := s.removed[key.Hash()]
	return ok
}

func (s *Store) markRemovedLocked(key lineage.Item) {
	s.removed[key.Hash()] = struct{}{}
}

func (s *Store) addLocked(e *Entry) {
	h := e.Key.Hash()
	s.items[h] = append(s.items[h], e)
	s.lru.pushFront(e)
}

func (s *Store) removeFromBucketLocked(e *Entry) {
	h := e.Key.Hash()
	bucket := s.items[h]
	for i, cand := range bucket {
		if cand == e {
			s.items[h] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(s.items[h]) == 0 {
		delete(s.items, h)
	}
}

func (s *Store) addSpillLocked(rec *spillRecord) {
	h := rec.key.Hash()
	s.spill[h] = append(s.spill[h], rec)
}

func (s *Store) removeSpillAtLocked(key lineage.Item, idx int) {
	h := key.Hash()
	bucket := s.spill[h]
	s.spill[h] = append(bucket[:idx], bucket[idx+1:]...)
	if len(s.spill[h]) == 0 {
		delete(s.spill, h)
	}
}

// fitsLocked is the admission predicate fits(n).
func (s *Store) fitsLocked(n int64) bool {
	return s.cacheBytes+n <= s.cfg.CacheLimitBytes
}

// admitLocked runs the eviction walk if needed and reports whether n
// bytes fit afterward.
func (s *Store) admitLocked(n int64) bool {
	if n > s.cfg.CacheLimitBytes {
		return false
	}
	if !s.fitsLocked(n) {
		s.evictLocked(n)
	}
	return s.fitsLocked(n)
}

// evictLocked walks the LRU from tail to head, deleting or spilling
// entries per the cost model of spec.md §4.5 until target more bytes
// fit under CACHE_LIMIT or the list is exhausted.
func (s *Store) evictLocked(target int64) {
	e := s.lru.back()
	for e != nil {
		if s.fitsLocked(target) {
			return
		}
		prev := s.lru.prev(e)
		if !e.CanEvict() {
			e = prev
			continue
		}
		if !s.cfg.SpillEnabled {
			s.deleteEntryLocked(e)
			e = prev
			continue
		}
		if e.Kind == KindScalar {
			execMs := e.ComputeTimeNs / int64(time.Millisecond)
			if execMs < s.cfg.MinSpillTimeMs {
				s.deleteEntryLocked(e)
			}
			e = prev
			continue
		}

		block := e.MatrixValue()
		rows, cols, nnz := block.Dims()
		sizeBytes := block.OnDiskSize(rows, cols, nnz)
		sparse := block.IsSparseOnDisk(rows, cols, nnz)
		sizeMB := float64(sizeBytes) / (1024 * 1024)
		spillMs := s.bw.roundTripEstimate(sizeMB, sparse)
		execMs := float64(e.ComputeTimeNs) / float64(time.Millisecond)

		var shouldSpill bool
		if spillMs < float64(s.cfg.MinSpillTimeMs) {
			shouldSpill = execMs >= float64(s.cfg.MinSpillTimeMs)
		} else {
			shouldSpill = execMs > spillMs
		}

		if shouldSpill {
			s.spillEntryLocked(e, sizeMB, sparse)
		} else {
			s.deleteEntryLocked(e)
		}
		e = prev
	}
}

func (s *Store) deleteEntryLocked(e *Entry) {
	s.lru.unlink(e)
	s.removeFromBucketLocked(e)
	s.cacheBytes -= e.SizeBytes
	s.markRemovedLocked(e.Key)
	e.Status = StatusToRemove
}

func (s *Store) spillEntryLocked(e *Entry, sizeMB float64, sparse bool) {
	block := e.MatrixValue()
	if !block.AcquireRead() {
		s.log.Error().Int64("key_id", e.Key.ID()).Msg("spill write: block busy, deleting entry instead")
		s.deleteEntryLocked(e)
		return
	}
	start := time.Now()
	path, err := s.files.Write(e.Key.ID(), block)
	block.Release()
	if err != nil {
		s.log.Error().Err(err).Int64("key_id", e.Key.ID()).Msg("spill write failed, deleting entry instead")
		s.deleteEntryLocked(e)
		return
	}
	if elapsed := time.Since(start).Seconds(); elapsed > 0 && sizeMB >= s.cfg.MinSpillDataMB {
		s.bw.observeWrite(sparse, sizeMB/elapsed)
	}
	if s.stats != nil {
		s.stats.RecordFSWrite()
	}

	s.lru.unlink(e)
	s.removeFromBucketLocked(e)
	s.cacheBytes -= e.SizeBytes
	s.markRemovedLocked(e.Key)
	e.Status = StatusToRemove

	s.addSpillLocked(&spillRecord{key: e.Key, path: path, computeTimeNs: e.ComputeTimeNs})
}

func (s *Store) reloadLocked(rec *spillRecord, idx int) (*Entry, error) {
	start := time.Now()
	block, err := s.files.Read(rec.path)
	if err != nil {
		return nil, fmt.Errorf("store: reload: %w", err)
	}
	rows, cols, nnz := block.Dims()
	sparse := block.IsSparseOnDisk(rows, cols, nnz)
	sizeMB := float64(block.OnDiskSize(rows, cols, nnz)) / (1024 * 1024)
	if elapsed := time.Since(start).Seconds(); elapsed > 0 && sizeMB >= s.cfg.MinSpillDataMB {
		s.bw.observeRead(sparse, sizeMB/elapsed)
	}
	if s.stats != nil {
		s.stats.RecordFSRead()
	}
	s.removeSpillAtLocked(rec.key, idx)
	if err := s.files.Delete(rec.path); err != nil {
		s.log.Warn().Err(err).Msg("spill file cleanup failed")
	}

	e := NewPlaceholder(rec.key, KindMatrix)
	size := block.InMemorySize()
	if !s.fitsLocked(size) {
		s.evictLocked(size)
	}
	e.markReloaded(block, rec.computeTimeNs)
	e.SizeBytes = size
	s.cacheBytes += size
	s.addLocked(e)
	return e, nil
}
