// Package lineagecache is the module's public entry point: it wires the
// Reuse/Multi-Output Reuse Coordinator (internal/cache) to the optional
// periodic telemetry logger (internal/telemetry) behind a single
// constructor and Close, the way the teacher's root ashcache.Cache
// embeds Cacher/Evictor/Lifetimer/Logger behind one Close.
package lineagecache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Borislavv/lineage-cache/config"
	"github.com/Borislavv/lineage-cache/internal/cache"
	"github.com/Borislavv/lineage-cache/internal/telemetry"
	"github.com/Borislavv/lineage-cache/pkg/execctx"
)

// OutputParam re-exports internal/cache.OutputParam so embedding
// programs can call TryReuseMulti/PutValueMulti without importing an
// internal package path.
type OutputParam = cache.OutputParam

// Cache is the module's public facade over the single- and
// multi-output reuse coordinators plus their statistics hooks and
// optional telemetry logging.
type Cache struct {
	*cache.Cache
	telemetry *telemetry.Logger
}

// New constructs a Cache. rewriter (the partial-reuse compensation-plan
// hook) and taint (the multi-output commit taint predicate) may both be
// nil, disabling PARTIAL reuse and taint-gating respectively. If
// cfg.TelemetryLogInterval is positive, a background goroutine logs a
// periodic statistics snapshot until Close is called.
func New(ctx context.Context, cfg *config.Cache, rewriter execctx.Rewriter, taint execctx.TaintChecker, log zerolog.Logger) *Cache {
	coordinator := cache.New(cfg, rewriter, taint, log)
	interval := time.Duration(cfg.TelemetryLogInterval) * time.Millisecond
	logger := telemetry.New(ctx, log, coordinator.Counters(), coordinator, interval)
	return &Cache{Cache: coordinator, telemetry: logger}
}

// Close stops the telemetry logger. Safe to call even when telemetry
// was never enabled.
func (c *Cache) Close() error { return c.telemetry.Close() }
