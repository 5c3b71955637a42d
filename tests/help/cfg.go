// Package help provides fixture builders for the top-level scenario
// tests, mirroring the teacher's tests/help package (cfg.go, logger.go)
// split from the narrower _test.go files living beside the code they
// exercise.
package help

import "github.com/Borislavv/lineage-cache/config"

// Cfg returns a FULL-reuse config with spill disabled and CACHE_LIMIT
// set to limitBytes, suitable as a baseline for most scenario tests.
func Cfg(limitBytes int64) *config.Cache {
	cfg := &config.Cache{
		ReuseMode:     config.ReuseModeFull,
		CacheFraction: 0.05,
	}
	cfg.AdjustConfig()
	cfg.CacheLimitBytes = limitBytes
	return cfg
}

// SpillCfg is Cfg with spill enabled and a low MinSpillTimeMs so tests
// can force spill-vs-delete decisions deterministically.
func SpillCfg(limitBytes int64, workDir string) *config.Cache {
	cfg := Cfg(limitBytes)
	cfg.Spill = &config.SpillCfg{
		MinSpillTimeMs: 100,
		MinSpillDataMB: 1,
		WorkDir:        workDir,
	}
	return cfg
}

// MultilevelCfg enables the multi-output reuse coordinator.
func MultilevelCfg(limitBytes int64) *config.Cache {
	cfg := Cfg(limitBytes)
	cfg.ReuseMode = config.ReuseModeMultilevel
	return cfg
}
