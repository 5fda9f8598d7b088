// Package config loads run defaults from the environment. Flags override
// anything loaded here; the feature map itself is compile-time fixed.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for a standard aortic-stenosis surveillance cohort.
const (
	DefaultThreshold = 4.0
	DefaultMinVisits = 5
)

// RunConfig are the tunables known before a run starts.
type RunConfig struct {
	Threshold       float64
	MinVisits       int
	IndicatorFilter bool
	DropIndicator   bool
	ComputeAVA      bool
}

// Load reads an optional .env file and the process environment. Unset
// variables fall back to defaults; malformed values are errors rather than
// silent fallbacks.
func Load() (*RunConfig, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := &RunConfig{
		Threshold:  DefaultThreshold,
		MinVisits:  DefaultMinVisits,
		ComputeAVA: true,
	}

	if v := os.Getenv("ECHODEID_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("ECHODEID_THRESHOLD: invalid value %q", v)
		}
		cfg.Threshold = f
	}
	if v := os.Getenv("ECHODEID_MIN_VISITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("ECHODEID_MIN_VISITS: invalid value %q", v)
		}
		cfg.MinVisits = n
	}

	var err error
	if cfg.IndicatorFilter, err = boolEnv("ECHODEID_INDICATOR_FILTER", false); err != nil {
		return nil, err
	}
	if cfg.DropIndicator, err = boolEnv("ECHODEID_DROP_INDICATOR", false); err != nil {
		return nil, err
	}
	if cfg.ComputeAVA, err = boolEnv("ECHODEID_COMPUTE_AVA", true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func boolEnv(name string, fallback bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid value %q", name, v)
	}
	return b, nil
}
