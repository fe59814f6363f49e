package main

import (
	"os"

	sentinel "github.com/sentinel-fleet/sentinel"
	"gopkg.in/yaml.v3"
)

// loadConfig resolves a sentinel.Config from an optional YAML file layered
// over sentinel.DefaultConfig, and applies the --seed override. Config-file
// loading is an external-collaborator concern (spec.md §1/§6: "configuration
// is explicit", no environment variables), so it lives in the driver binary
// and never in the core package.
func loadConfig(path string, seedOverride int64) (sentinel.Config, error) {
	cfg := sentinel.DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, err
		}
	}
	if seedOverride != 0 {
		cfg.Seed = seedOverride
	}
	return cfg, nil
}
