// Package types defines the public domain types for the driftwatch drift-detection system.
package types

// Metric identifies a drift divergence metric.
type Metric string

// Metric values enumerate the supported drift metrics.
const (
	MetricPSI       Metric = "psi"
	MetricKS        Metric = "ks"
	MetricChiSquare Metric = "chi_square"
)

// Valid reports whether m is a recognized metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricPSI, MetricKS, MetricChiSquare:
		return true
	}
	return false
}

// AllMetrics lists the supported metrics in a stable order.
func AllMetrics() []Metric {
	return []Metric{MetricPSI, MetricKS, MetricChiSquare}
}

// FeatureType is the caller-declared kind of the compared feature.
type FeatureType string

// FeatureType values enumerate the supported feature kinds.
const (
	FeatureNumerical   FeatureType = "numerical"
	FeatureCategorical FeatureType = "categorical"
)

// Valid reports whether f is a recognized feature type.
func (f FeatureType) Valid() bool {
	return f == FeatureNumerical || f == FeatureCategorical
}

// Severity classifies how far a detected drift exceeds its threshold.
type Severity string

// Severity values enumerate the alert severities.
const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SinkType defines the alert sink backend.
type SinkType string

// SinkType values enumerate the supported alert sink backends.
const (
	SinkConsole SinkType = "console"
	SinkFile    SinkType = "file"
	SinkWebhook SinkType = "webhook"
	SinkKafka   SinkType = "kafka"
	SinkSNS     SinkType = "sns"
	SinkS3      SinkType = "s3"
	SinkPubSub  SinkType = "pubsub"
)
