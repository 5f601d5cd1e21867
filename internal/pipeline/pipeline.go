// Package pipeline composes sample extraction, metric computation, drift
// detection, and alert generation into a single report.
package pipeline

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/dataset"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/internal/metrics"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Run compares the first column of the two tables with the named metric and
// assembles the full report. Each call is a pure function of its inputs;
// any validation failure aborts the run with that error, never a partial
// report. Multi-feature comparisons are multiple calls.
func Run(reference, current *dataset.Table, featureType types.FeatureType, metric types.Metric, threshold float64) (*types.PipelineReport, error) {
	if reference == nil || reference.Len() == 0 {
		return nil, drift.NewValidationError("reference table cannot be empty")
	}
	if current == nil || current.Len() == 0 {
		return nil, drift.NewValidationError("current table cannot be empty")
	}
	if !metric.Valid() {
		return nil, drift.NewValidationError("unsupported metric: %s", metric)
	}
	if featureType == "" {
		featureType = types.FeatureNumerical
	}
	if !featureType.Valid() {
		return nil, drift.NewValidationError("unsupported feature type: %s", featureType)
	}

	refSample, err := columnSample(reference, featureType)
	if err != nil {
		return nil, err
	}
	currSample, err := columnSample(current, featureType)
	if err != nil {
		return nil, err
	}

	timer := prometheus.NewTimer(metrics.DetectionSeconds.WithLabelValues(string(metric)))
	result, err := drift.Calculate(metric, refSample, currSample)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	record, err := drift.Detect(result, threshold)
	if err != nil {
		return nil, err
	}
	metrics.DetectionsTotal.WithLabelValues(string(metric), strconv.FormatBool(record.DriftDetected)).Inc()

	a, err := alert.Generate(record)
	if err != nil {
		return nil, err
	}

	report := &types.PipelineReport{
		DriftDetected: record.DriftDetected,
		Alerts:        make([]types.Alert, 0, 1),
		Metrics:       map[types.Metric]types.MetricResult{metric: result},
		Window: types.Window{
			ReferenceSize: reference.Len(),
			CurrentSize:   current.Len(),
		},
	}
	if a != nil {
		report.Alerts = append(report.Alerts, *a)
	}
	return report, nil
}

// columnSample extracts the table's first column as a sample. The feature
// type picks the construction: numerical columns classify element kind from
// the data, categorical columns keep values as labels verbatim.
func columnSample(t *dataset.Table, featureType types.FeatureType) (drift.Sample, error) {
	raw, err := t.Column(0)
	if err != nil {
		return drift.Sample{}, err
	}
	if featureType == types.FeatureCategorical {
		return drift.Categorical(raw), nil
	}
	return drift.Parse(raw), nil
}
