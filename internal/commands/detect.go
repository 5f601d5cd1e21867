package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/dataset"
	"github.com/driftwatch-systems/driftwatch/internal/pipeline"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	flags := &detectFlags{}
	cmd := &cobra.Command{
		Use:   "detect <reference.csv> <current.csv>",
		Short: "Compare two datasets for distributional drift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, flags, args[0], args[1])
		},
	}
	flags.register(cmd)
	return cmd
}

func runDetect(cmd *cobra.Command, flags *detectFlags, refPath, currPath string) error {
	reference, err := dataset.Load(refPath)
	if err != nil {
		return fmt.Errorf("loading reference dataset: %w", err)
	}
	current, err := dataset.Load(currPath)
	if err != nil {
		return fmt.Errorf("loading current dataset: %w", err)
	}

	if reference, err = projectFeature(reference, flags.feature); err != nil {
		return err
	}
	if current, err = projectFeature(current, flags.feature); err != nil {
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

	if err := flags.dispatchAlerts(cmd.Context(), featureLabel(flags, reference), report); err != nil {
		return err
	}
	if err := printReport(cmd, report); err != nil {
		return err
	}
	return reportExit(report)
}
