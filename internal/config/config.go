// Package config handles loading and validation of driftwatch YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

var validate = validator.New()

// envOverrides are the settings that DRIFTWATCH_* environment variables may
// override after the file is parsed.
type envOverrides struct {
	ServerAddr    string `envconfig:"SERVER_ADDR"`
	WatchInterval string `envconfig:"WATCH_INTERVAL"`
}

// Load reads a driftwatch config file, applies environment overrides, and
// validates the result.
func Load(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("driftwatch", &env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if env.ServerAddr != "" {
		cfg.Server.Addr = env.ServerAddr
	}
	if env.WatchInterval != "" {
		cfg.Watch.Interval = env.WatchInterval
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Threshold resolves the detection threshold for a metric and feature: a
// per-feature override when one exists, the metric's default otherwise.
func Threshold(cfg *types.Config, metric types.Metric, feature string) (float64, error) {
	if cfg == nil || cfg.Metrics == nil {
		return 0, drift.NewValidationError("metrics configuration is required")
	}
	mc, ok := cfg.Metrics[metric]
	if !ok {
		return 0, drift.NewValidationError("metric %q is not configured", metric)
	}
	if feature != "" {
		if v, ok := mc.FeatureThresholds[feature]; ok {
			return v, nil
		}
	}
	if mc.DefaultThreshold == nil {
		return 0, drift.NewValidationError("defaultThreshold is required for metric %q", metric)
	}
	return *mc.DefaultThreshold, nil
}
