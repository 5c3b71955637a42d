// Package telemetry implements the Statistics Hooks' periodic reporting
// surface (C9): an optional background goroutine that logs a one-line
// delta snapshot of hit/miss/spill-write/spill-read/deleted-hit
// counters plus the current cache size and limit, purely
// observational per spec.md §2 ("no effect on correctness"). Grounded
// on the teacher's internal/telemetry/logger.go + sampler.go
// ticker-driven delta-snapshot pattern, retargeted from the teacher's
// lifetime/admission/eviction counters to this cache's reuse counters.
package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Borislavv/lineage-cache/internal/shared/bytes"
)

// Source is the counters collaborator (internal/cache.Counters
// implements this).
type Source interface {
	Snapshot() (hits, misses, fsWrites, fsReads, deletedHits int64)
}

// Sizer is the residency-size collaborator (internal/cache.Cache and
// internal/store.Store both implement this).
type Sizer interface {
	CacheBytes() int64
	CacheLimit() int64
}

// Logger runs the periodic stats-line goroutine.
type Logger struct {
	ctx      context.Context
	cancel   context.CancelFunc
	log      zerolog.Logger
	counters Source
	sizer    Sizer
	interval time.Duration
}

// New starts the logger if interval is positive; a non-positive
// interval disables it (the returned Logger's Close is still safe to
// call).
func New(ctx context.Context, log zerolog.Logger, counters Source, sizer Sizer, interval time.Duration) *Logger {
	ctx, cancel := context.WithCancel(ctx)
	l := &Logger{ctx: ctx, cancel: cancel, log: log, counters: counters, sizer: sizer, interval: interval}
	if interval > 0 {
		go l.loop()
	}
	return l
}

// Close stops the background goroutine.
func (l *Logger) Close() error {
	l.cancel()
	return nil
}

func (l *Logger) loop() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	prev := l.sample()
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			cur := l.sample()
			d := deltaSnapshot(prev, cur)
			prev = cur

			l.log.Info().
				Str("interval", l.interval.String()).
				Uint64("hits", d.hits).
				Uint64("misses", d.misses).
				Uint64("fs_writes", d.fsWrites).
				Uint64("fs_reads", d.fsReads).
				Uint64("deleted_hits", d.deletedHits).
				Str("size", bytes.FmtMem(uint64(l.sizer.CacheBytes()))).
				Str("limit", bytes.FmtMem(uint64(l.sizer.CacheLimit()))).
				Msg("lineage_cache")
		}
	}
}

func (l *Logger) sample() snapshot {
	hits, misses, fsWrites, fsReads, deletedHits := l.counters.Snapshot()
	return snapshot{
		hits:        uint64(max(hits, 0)),
		misses:      uint64(max(misses, 0)),
		fsWrites:    uint64(max(fsWrites, 0)),
		fsReads:     uint64(max(fsReads, 0)),
		deletedHits: uint64(max(deletedHits, 0)),
	}
}
