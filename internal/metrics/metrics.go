// Package metrics exposes runtime counters via Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_detections_total",
		Help: "Total drift detections run, by metric and outcome.",
	}, []string{"metric", "drift"})

	AlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_alerts_total",
		Help: "Total alerts generated, by metric and severity.",
	}, []string{"metric", "severity"})

	SinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_sink_errors_total",
		Help: "Total alert deliveries that failed, by sink.",
	}, []string{"sink"})

	DetectionSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "driftwatch_detection_seconds",
		Help:    "Wall time of a single drift detection.",
		Buckets: prometheus.DefBuckets,
	}, []string{"metric"})
)
