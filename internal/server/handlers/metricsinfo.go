package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

type metricInfo struct {
	Name        types.Metric `json:"name"`
	Description string       `json:"description"`
	DataKind    string       `json:"dataKind"`
	Decision    string       `json:"decision"`
}

// MetricsInfo lists the supported drift metrics and their decision rules.
func (h *Handlers) MetricsInfo(w http.ResponseWriter, r *http.Request) {
	infos := make([]metricInfo, 0, len(types.AllMetrics()))
	for _, m := range types.AllMetrics() {
		infos = append(infos, describeMetric(m))
	}
	_ = json.NewEncoder(w).Encode(infos)
}

func describeMetric(m types.Metric) metricInfo {
	switch m {
	case types.MetricPSI:
		return metricInfo{
			Name:        m,
			Description: "Population Stability Index over 10 equal-width bins spanning the reference range",
			DataKind:    "numerical",
			Decision:    "drift when value > threshold",
		}
	case types.MetricKS:
		return metricInfo{
			Name:        m,
			Description: "Two-sample Kolmogorov-Smirnov test with asymptotic p-value",
			DataKind:    "numerical",
			Decision:    "drift when statistic > threshold",
		}
	case types.MetricChiSquare:
		return metricInfo{
			Name:        m,
			Description: "Chi-square independence test over a 2xk category contingency table",
			DataKind:    "categorical",
			Decision:    "drift when p_value < threshold",
		}
	}
	return metricInfo{Name: m}
}
