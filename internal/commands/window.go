package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/dataset"
	"github.com/driftwatch-systems/driftwatch/internal/pipeline"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// NewWindowCmd creates the window command, which compares two slices of one
// continuous dataset: the first reference-size rows against the last
// current-size rows. The windows may overlap.
func NewWindowCmd() *cobra.Command {
	flags := &detectFlags{}
	var referenceSize, currentSize int
	cmd := &cobra.Command{
		Use:   "window <data.csv>",
		Short: "Split one dataset into reference and current windows and compare them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd, flags, args[0], referenceSize, currentSize)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&referenceSize, "reference-size", 0, "rows from the start of the file for the reference window")
	cmd.Flags().IntVar(&currentSize, "current-size", 0, "rows from the end of the file for the current window")
	_ = cmd.MarkFlagRequired("reference-size")
	_ = cmd.MarkFlagRequired("current-size")
	return cmd
}

func runWindow(cmd *cobra.Command, flags *detectFlags, path string, referenceSize, currentSize int) error {
	table, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	if table, err = projectFeature(table, flags.feature); err != nil {
		return err
	}

	reference, current, err := dataset.Windows(table, referenceSize, currentSize)
	if err != nil {
		return err
	}

	threshold, err := flags.resolveThreshold(cmd)
	if err != nil {
		return err
	}

	report, err := pipeline.Run(reference, current, types.FeatureType(flags.featureType), types.Metric(flags.metric), threshold)
	if err != nil {
		return err
	}

	if err := flags.dispatchAlerts(cmd.Context(), featureLabel(flags, table), report); err != nil {
		return err
	}
	if err := printReport(cmd, report); err != nil {
		return err
	}
	return reportExit(report)
}
