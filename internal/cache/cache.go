// Package cache implements the Reuse Coordinator (C7) and Multi-Output
// Reuse Coordinator (C8): the probe/hit-or-placeholder-install protocol
// the runtime calls around executing an instruction, built on top of
// internal/store's residency layer. Mirrors the teacher's
// internal/cache package split (a public coordinator type over a
// private residency map, counters threaded through construction)
// generalized from key/value caching to lineage-keyed reuse.
package cache

import (
	"github.com/rs/zerolog"

	"github.com/Borislavv/lineage-cache/config"
	"github.com/Borislavv/lineage-cache/internal/store"
	"github.com/Borislavv/lineage-cache/pkg/execctx"
	"github.com/Borislavv/lineage-cache/pkg/lineage"
	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

// Cache is the single-op and multi-output reuse coordinator (C7, C8)
// together with its statistics hooks (C9), wired to one Store instance.
type Cache struct {
	cfg      *config.Cache
	store    *store.Store
	rewriter execctx.Rewriter
	taint    execctx.TaintChecker
	counters *Counters
	log      zerolog.Logger
}

// New constructs a Cache. rewriter may be nil (disables PARTIAL reuse
// regardless of config); taint may be nil (defaults to execctx.NoTaint,
// disabling the commit-phase taint check).
func New(cfg *config.Cache, rewriter execctx.Rewriter, taint execctx.TaintChecker, log zerolog.Logger) *Cache {
	if taint == nil {
		taint = execctx.NoTaint
	}
	counters := NewCounters()
	return &Cache{
		cfg:      cfg,
		store:    store.New(storeConfig(cfg), counters, log),
		rewriter: rewriter,
		taint:    taint,
		counters: counters,
		log:      log,
	}
}

func storeConfig(cfg *config.Cache) store.Config {
	sc := store.Config{
		CacheLimitBytes: cfg.CacheLimitBytes,
		SpillEnabled:    cfg.SpillEnabled(),
		MinSpillTimeMs:  defaultMinSpillTimeMs,
	}
	if cfg.Spill != nil {
		sc.MinSpillTimeMs = cfg.Spill.MinSpillTimeMs
		sc.MinSpillDataMB = cfg.Spill.MinSpillDataMB
		sc.WorkDir = cfg.Spill.WorkDir
	}
	return sc
}

const defaultMinSpillTimeMs = 100

func kindOf(isMatrix bool) store.Kind {
	if isMatrix {
		return store.KindMatrix
	}
	return store.KindScalar
}

// Counters exposes the statistics hooks (C9) for telemetry wiring.
func (c *Cache) Counters() *Counters { return c.counters }

// CacheBytes reports the current in-memory footprint.
func (c *Cache) CacheBytes() int64 { return c.store.CacheBytes() }

// CacheLimit reports CACHE_LIMIT.
func (c *Cache) CacheLimit() int64 { return c.store.CacheLimit() }

// TryReuseSingle is the single-output reuse coordinator's public entry
// point (spec.md §4.1, §6 try_reuse_single).
func (c *Cache) TryReuseSingle(instr execctx.Instruction, ctx execctx.ExecutionContext) bool {
	if c.cfg.ReuseMode == config.ReuseModeNone {
		return false
	}
	if !instr.Reusable(ctx) {
		// Ineligible: silently no-op (spec.md §4.1 error conditions).
		return false
	}
	items := instr.LineageItems(ctx)
	if len(items) == 0 {
		return false
	}
	key := items[0]

	entry, hit := c.probeOrInstall(instr, ctx, key)
	if !hit {
		return false
	}

	if instr.IsMatrixOutput() {
		v, ok := entry.GetMatrix()
		if !ok {
			return false
		}
		ctx.SetMatrixOutput(instr.OutputName(), v)
	} else {
		v, ok := entry.GetScalar()
		if !ok {
			return false
		}
		ctx.SetScalarOutput(instr.OutputName(), v)
	}
	c.counters.RecordHit()
	return true
}

// probeOrInstall implements spec.md §4.1 step 4: full-hit probe, then
// (if still missing) the partial-reuse rewriter probe, then (if still
// missing and the instruction clears the comp_assume_read_write gate) a
// fresh placeholder install. hit=true means entry is either a ready
// value or another producer's in-flight placeholder the caller should
// block on; hit=false with a non-nil entry means this call just became
// the producer.
func (c *Cache) probeOrInstall(instr execctx.Instruction, ctx execctx.ExecutionContext, key lineage.Item) (entry *store.Entry, hit bool) {
	if c.cfg.FullEnabled() {
		entry, hit = c.store.Lookup(key)
	}
	if !hit && c.cfg.PartialEnabled() && c.rewriter != nil {
		if c.rewriter.ExecuteRewrites(instr, ctx) {
			entry, hit = c.store.Lookup(key)
		}
	}
	if !hit {
		// comp_assume_read_write (spec.md §4.8): when true, only admit
		// matrix entries whose owning object is externally marked; when
		// false, admit all. Scalars are never gated by this flag.
		if instr.IsMatrixOutput() && c.cfg.CompAssumeReadWrite && !instr.MarkedForCaching(ctx) {
			return nil, false
		}
		e, present := c.store.Install(key, kindOf(instr.IsMatrixOutput()))
		entry, hit = e, present
		if !present {
			c.counters.RecordMiss()
		}
	}
	return entry, hit
}

// PutMatrixSingle fills the placeholder installed for instr with its
// matrix output (spec.md §6 put_matrix_single).
func (c *Cache) PutMatrixSingle(instr execctx.Instruction, ctx execctx.ExecutionContext, computeTimeNs int64) {
	if c.cfg.ReuseMode == config.ReuseModeNone {
		return
	}
	items := instr.LineageItems(ctx)
	if len(items) == 0 {
		return
	}
	v, ok := ctx.GetVariable(instr.OutputName())
	if !ok {
		return
	}
	block, ok := v.(matrix.Block)
	if !ok {
		return
	}
	if err := c.store.FillMatrix(items[0], block, computeTimeNs); err != nil {
		c.log.Warn().Err(err).Msg("put_matrix_single: admission failed")
	}
}

// PutValueSingle is the kind-generic form of put (spec.md §6
// put_value_single): it dispatches to the matrix or scalar fill path
// based on the instruction's declared output kind.
func (c *Cache) PutValueSingle(instr execctx.Instruction, ctx execctx.ExecutionContext, computeTimeNs int64) {
	if instr.IsMatrixOutput() {
		c.PutMatrixSingle(instr, ctx, computeTimeNs)
		return
	}
	if c.cfg.ReuseMode == config.ReuseModeNone {
		return
	}
	items := instr.LineageItems(ctx)
	if len(items) == 0 {
		return
	}
	v, ok := ctx.GetVariable(instr.OutputName())
	if !ok {
		return
	}
	scalar, ok := v.(matrix.Scalar)
	if !ok {
		return
	}
	if err := c.store.FillScalar(items[0], scalar, computeTimeNs); err != nil {
		c.log.Warn().Err(err).Msg("put_value_single: admission failed")
	}
}

// Probe is the public, non-binding presence check (spec.md §6 probe).
func (c *Cache) Probe(key lineage.Item) bool { return c.store.Probe(key) }

// GetMatrix is the standalone blocking accessor (spec.md §6 get_matrix).
func (c *Cache) GetMatrix(key lineage.Item) (matrix.Block, error) { return c.store.GetMatrix(key) }

// Reset clears the cache to its initial empty state (spec.md §6 reset).
func (c *Cache) Reset() { c.store.Reset() }
