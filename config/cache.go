package config

// Cache is the Config Facade (C10): the full set of tunables the cache
// reads at construction time. Mirrors the teacher's internal/config
// layout — one struct grouping every subsystem's knobs, sub-configs as
// pointers so a nil value disables that subsystem.
type Cache struct {
	// ReuseMode selects which lookup paths participate in try_reuse
	// (spec.md §4.8).
	ReuseMode ReuseMode `yaml:"reuse_mode"`

	// Spill configures the disk-spill eviction path. Nil disables
	// spill: eviction always deletes.
	Spill *SpillCfg `yaml:"spill"`

	// CacheFraction is the fraction of available process memory used
	// to derive CacheLimitBytes (default 0.05, spec.md §4.8).
	CacheFraction float64 `yaml:"cache_fraction"`

	// MaxMemoryBytes is the fallback "available memory" figure used to
	// derive CacheLimitBytes when the process has no Go soft memory
	// limit configured (GOMEMLIMIT) — Go has no JVM-style queryable
	// max-heap figure, so this stands in for
	// InfrastructureAnalyzer.getLocalMaxMemory() (see DESIGN.md).
	MaxMemoryBytes int64 `yaml:"max_memory_bytes"`

	// CompAssumeReadWrite, when true, admits only matrix-output
	// instructions whose owning object has been externally marked for
	// caching; when false, every reuse-eligible instruction is
	// admitted (spec.md §4.8, comp_assume_read_write).
	CompAssumeReadWrite bool `yaml:"comp_assume_read_write"`

	// TelemetryLogInterval, if positive, starts a background goroutine
	// logging a periodic statistics snapshot (C9/internal/telemetry).
	// Zero disables it.
	TelemetryLogInterval int64 `yaml:"telemetry_log_interval_ms"`

	// CacheLimitBytes is CACHE_LIMIT, derived during AdjustConfig from
	// CacheFraction and available memory. Not read from YAML.
	CacheLimitBytes int64 // virtual: computed during init (bytes)
}

// FullEnabled reports whether the exact-lineage hit path of §4.1 is
// active.
func (cfg *Cache) FullEnabled() bool {
	switch cfg.ReuseMode {
	case ReuseModeFull, ReuseModeMultilevel, ReuseModeFullPartial:
		return true
	default:
		return false
	}
}

// PartialEnabled reports whether the compensation-rewriter hook is
// consulted on a full-lineage miss.
func (cfg *Cache) PartialEnabled() bool {
	switch cfg.ReuseMode {
	case ReuseModePartial, ReuseModeFullPartial:
		return true
	default:
		return false
	}
}

// MultilevelEnabled reports whether the §4.7 multi-output protocol is
// active.
func (cfg *Cache) MultilevelEnabled() bool {
	return cfg.ReuseMode == ReuseModeMultilevel
}

// SpillEnabled reports whether disk spill is configured.
func (cfg *Cache) SpillEnabled() bool { return cfg.Spill.Enabled() }
