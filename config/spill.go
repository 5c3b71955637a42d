package config

// SpillCfg configures the eviction policy's disk-spill path (C5/C6). A
// nil SpillCfg disables spill entirely: eviction always deletes instead
// of writing to disk (spec.md §4.5), the same nil-disables-subsystem
// idiom the teacher uses for AdmissionControl/Compression/Lifetime/
// Eviction.
type SpillCfg struct {
	// MinSpillTimeMs gates both the scalar-eviction threshold and the
	// "estimate unreliable" branch for matrices (spec.md §4.5, default
	// 100).
	MinSpillTimeMs int64 `yaml:"min_spill_time_ms"`
	// MinSpillDataMB: below this payload size, an observed spill I/O
	// does not update the bandwidth EMA (spec.md §4.6).
	MinSpillDataMB float64 `yaml:"min_spill_data_mb"`
	// WorkDir overrides the per-process spill directory. Empty selects
	// a directory under os.TempDir() lazily on first spill.
	WorkDir string `yaml:"work_dir"`
}

// Enabled reports whether spill is configured.
func (cfg *SpillCfg) Enabled() bool { return cfg != nil }
