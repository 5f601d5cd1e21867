package alert

import (
	"fmt"

	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Generate maps a detection record to a severity-tagged alert, or nothing
// when no drift was detected. The alert's details are the record minus its
// drift_detected flag, with unmodeled extra fields passed through.
func Generate(record *types.DetectionRecord) (*types.Alert, error) {
	if record == nil {
		return nil, drift.NewTypeError("detection record is required")
	}
	if record.Metric == "" {
		return nil, drift.NewValidationError("metric is required")
	}
	if !record.DriftDetected {
		return nil, nil
	}

	severity := types.SeverityWarning
	if severityValue(record) > 2*record.Threshold {
		severity = types.SeverityCritical
	}

	return &types.Alert{
		Alert:    true,
		Severity: severity,
		Metric:   record.Metric,
		Message:  fmt.Sprintf("Drift detected using %s metric", record.Metric),
		Details:  record.Details(),
	}, nil
}

// severityValue picks which number severity grades: the PSI value when
// present, else the test statistic. A record carrying only a p-value
// grades 0 and therefore always lands in the warning band.
func severityValue(record *types.DetectionRecord) float64 {
	switch {
	case record.Value != nil:
		return *record.Value
	case record.Statistic != nil:
		return *record.Statistic
	default:
		return 0
	}
}
