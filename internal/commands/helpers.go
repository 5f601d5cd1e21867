// Package commands implements the CLI subcommands for the driftwatch binary.
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/internal/dataset"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// ExitError carries a specific process exit code through RunE to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// detectFlags are the options shared by the detect and window commands.
type detectFlags struct {
	metric      string
	threshold   float64
	feature     string
	featureType string
	configPath  string

	cfg *types.Config
}

func (f *detectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.metric, "metric", "", "drift metric: psi, ks, or chi_square")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "detection threshold (resolved from config when omitted)")
	cmd.Flags().StringVar(&f.feature, "feature", "", "feature column to compare (first column when omitted)")
	cmd.Flags().StringVar(&f.featureType, "feature-type", string(types.FeatureNumerical), "feature kind: numerical or categorical")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to driftwatch.yaml")
	_ = cmd.MarkFlagRequired("metric")
}

// loadConfig reads the --config file once and caches it. No config flag
// means no config, not an error.
func (f *detectFlags) loadConfig() (*types.Config, error) {
	if f.configPath == "" {
		return nil, nil
	}
	if f.cfg == nil {
		cfg, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		f.cfg = cfg
	}
	return f.cfg, nil
}

// resolveThreshold prefers an explicit --threshold; otherwise the config
// file resolves one per metric and feature.
func (f *detectFlags) resolveThreshold(cmd *cobra.Command) (float64, error) {
	if cmd.Flags().Changed("threshold") {
		return f.threshold, nil
	}
	cfg, err := f.loadConfig()
	if err != nil {
		return 0, err
	}
	if cfg == nil {
		return 0, drift.NewValidationError("threshold is required when no config file is given")
	}
	return config.Threshold(cfg, types.Metric(f.metric), f.feature)
}

// dispatchAlerts delivers the report's alerts to the sinks the config
// names. Without a config, or without sinks in it, there is nowhere to
// deliver and the report on stdout is the only output.
func (f *detectFlags) dispatchAlerts(ctx context.Context, feature string, report *types.PipelineReport) error {
	if len(report.Alerts) == 0 {
		return nil
	}
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	if cfg == nil || len(cfg.Alerts) == 0 {
		return nil
	}
	d, err := alert.NewDispatcher(cfg.Alerts)
	if err != nil {
		return fmt.Errorf("creating alert dispatcher: %w", err)
	}
	for _, a := range report.Alerts {
		d.Dispatch(ctx, feature, a)
	}
	return nil
}

// featureLabel names the compared feature for alert envelopes: the flag
// when given, else the table's leading column.
func featureLabel(flags *detectFlags, t *dataset.Table) string {
	if flags.feature != "" {
		return flags.feature
	}
	if cols := t.Columns(); len(cols) > 0 {
		return cols[0]
	}
	return ""
}

func projectFeature(t *dataset.Table, feature string) (*dataset.Table, error) {
	if feature == "" {
		return t, nil
	}
	return t.Project(feature)
}

// printReport writes the report JSON to stdout, the command's sole output.
func printReport(cmd *cobra.Command, report *types.PipelineReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// reportExit maps a report to the process exit contract: drift exits 2.
func reportExit(report *types.PipelineReport) error {
	if report.DriftDetected {
		return &ExitError{Code: 2}
	}
	return nil
}
