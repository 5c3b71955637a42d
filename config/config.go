package config

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"

	"gopkg.in/yaml.v3"
)

const (
	defaultCacheFraction  = 0.05
	defaultMaxMemoryBytes = 2 << 30 // 2 GiB, used only when GOMEMLIMIT is unset
	defaultMinSpillTimeMs = 100
)

// AdjustConfig derives fields not read from YAML, mirroring the
// teacher's internal/config/config.go LoadConfig/AdjustConfig split.
func (cfg *Cache) AdjustConfig() {
	if cfg.CacheFraction <= 0 {
		cfg.CacheFraction = defaultCacheFraction
	}
	if cfg.MaxMemoryBytes <= 0 {
		cfg.MaxMemoryBytes = defaultMaxMemoryBytes
	}

	available := cfg.MaxMemoryBytes
	// debug.SetMemoryLimit(-1) reads without changing the configured
	// soft memory limit, returning math.MaxInt64 if GOMEMLIMIT/
	// SetMemoryLimit was never called — Go's nearest analogue to the
	// JVM's InfrastructureAnalyzer.getLocalMaxMemory() (see DESIGN.md).
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		available = limit
	}
	cfg.CacheLimitBytes = int64(float64(available) * cfg.CacheFraction)

	if cfg.Spill.Enabled() && cfg.Spill.MinSpillTimeMs <= 0 {
		cfg.Spill.MinSpillTimeMs = defaultMinSpillTimeMs
	}
}

// LoadConfig reads and unmarshals a YAML config file, then derives its
// computed fields.
func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Cache
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.AdjustConfig()

	return cfg, nil
}
