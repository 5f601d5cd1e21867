// Package drift implements the statistical drift metrics (PSI,
// Kolmogorov-Smirnov, chi-square) and the threshold detectors that turn a
// metric result into a normalized detection record. Every function here is
// a pure function of its arguments.
package drift

import "github.com/driftwatch-systems/driftwatch/pkg/types"

// Calculate computes the named metric over the two samples.
func Calculate(metric types.Metric, reference, current Sample) (types.MetricResult, error) {
	switch metric {
	case types.MetricPSI:
		r, err := PSI(reference, current)
		if err != nil {
			return nil, err
		}
		return r, nil
	case types.MetricKS:
		r, err := KS(reference, current)
		if err != nil {
			return nil, err
		}
		return r, nil
	case types.MetricChiSquare:
		r, err := ChiSquare(reference, current)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, NewValidationError("unsupported metric: %s", metric)
	}
}

// Detect routes a metric result to its detector.
func Detect(result types.MetricResult, threshold float64) (*types.DetectionRecord, error) {
	switch r := result.(type) {
	case types.PSIResult:
		return DetectPSI(r.Value, threshold)
	case types.KSResult:
		return DetectKS(r.Statistic, r.PValue, threshold)
	case types.ChiSquareResult:
		return DetectChiSquare(r.Statistic, r.PValue, threshold)
	default:
		return nil, NewValidationError("unsupported metric result %T", result)
	}
}

// DetectPSI gates a computed PSI value against a threshold. Drift requires
// the value to be strictly greater than the threshold; equality does not
// count. The record echoes every input verbatim.
func DetectPSI(value, threshold float64) (*types.DetectionRecord, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	return &types.DetectionRecord{
		DriftDetected: value > threshold,
		Metric:        types.MetricPSI,
		Threshold:     threshold,
		Value:         &value,
	}, nil
}

// DetectKS gates the KS statistic against a threshold; the p-value is
// carried through for auditability but not consulted for the decision.
func DetectKS(statistic, pValue, threshold float64) (*types.DetectionRecord, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	return &types.DetectionRecord{
		DriftDetected: statistic > threshold,
		Metric:        types.MetricKS,
		Threshold:     threshold,
		Statistic:     &statistic,
		PValue:        &pValue,
	}, nil
}

// DetectChiSquare gates the chi-square p-value against a threshold. Drift
// requires the p-value to be strictly less than the threshold, the
// opposite direction from PSI and KS: a low p-value signals significant
// divergence.
func DetectChiSquare(statistic, pValue, threshold float64) (*types.DetectionRecord, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	return &types.DetectionRecord{
		DriftDetected: pValue < threshold,
		Metric:        types.MetricChiSquare,
		Threshold:     threshold,
		Statistic:     &statistic,
		PValue:        &pValue,
	}, nil
}

func validateThreshold(threshold float64) error {
	if threshold <= 0 {
		return NewValidationError("threshold must be greater than 0")
	}
	return nil
}
