package types

import "encoding/json"

// MetricResult is the computed output of one drift metric. It is a sealed
// set: PSIResult, KSResult, and ChiSquareResult are the only variants, so
// consumers can switch over the concrete type instead of probing for keys.
type MetricResult interface {
	Metric() Metric
}

// PSIResult is the Population Stability Index output, a single scalar.
type PSIResult struct {
	Value float64 `json:"-"`
}

// Metric identifies the variant.
func (r PSIResult) Metric() Metric { return MetricPSI }

// MarshalJSON serializes the PSI result as a bare number, the report's
// historical shape for scalar metrics.
func (r PSIResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value)
}

// KSResult is the two-sample Kolmogorov-Smirnov test output.
type KSResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}

// Metric identifies the variant.
func (r KSResult) Metric() Metric { return MetricKS }

// ChiSquareResult is the chi-square independence test output.
type ChiSquareResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}

// Metric identifies the variant.
func (r ChiSquareResult) Metric() Metric { return MetricChiSquare }

// DetectionRecord is the normalized outcome of one threshold detection.
// Threshold always echoes the exact value the detector was called with.
// Metric-specific fields: Value for PSI, Statistic and PValue for KS and
// chi-square.
type DetectionRecord struct {
	DriftDetected bool     `json:"drift_detected"`
	Metric        Metric   `json:"metric"`
	Threshold     float64  `json:"threshold"`
	Value         *float64 `json:"value,omitempty"`
	Statistic     *float64 `json:"statistic,omitempty"`
	PValue        *float64 `json:"p_value,omitempty"`

	// Extra carries unmodeled diagnostic fields through to alert details.
	Extra map[string]any `json:"-"`
}

// Details flattens the record into a map with drift_detected removed.
// Extra entries pass through verbatim.
func (r *DetectionRecord) Details() map[string]any {
	d := make(map[string]any, 5+len(r.Extra))
	d["metric"] = r.Metric
	d["threshold"] = r.Threshold
	if r.Value != nil {
		d["value"] = *r.Value
	}
	if r.Statistic != nil {
		d["statistic"] = *r.Statistic
	}
	if r.PValue != nil {
		d["p_value"] = *r.PValue
	}
	for k, v := range r.Extra {
		d[k] = v
	}
	return d
}

// Alert is a drift notification. The five fields below are the complete
// wire shape; delivery metadata lives in the sink envelope, never here.
type Alert struct {
	Alert    bool           `json:"alert"`
	Severity Severity       `json:"severity"`
	Metric   Metric         `json:"metric"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details"`
}

// Window records the row counts the pipeline compared.
type Window struct {
	ReferenceSize int `json:"reference_size"`
	CurrentSize   int `json:"current_size"`
}

// PipelineReport is the full result of one drift pipeline run.
type PipelineReport struct {
	DriftDetected bool                    `json:"drift_detected"`
	Alerts        []Alert                 `json:"alerts"`
	Metrics       map[Metric]MetricResult `json:"metrics"`
	Window        Window                  `json:"window"`
}
