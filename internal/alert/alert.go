// Package alert turns detection records into alerts and delivers them to
// configured sinks.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/driftwatch-systems/driftwatch/internal/metrics"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Envelope wraps an alert with delivery metadata. The inner Alert keeps its
// five-field wire shape; identity and timing live here, at the sink boundary.
type Envelope struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Feature   string      `json:"feature,omitempty"`
	Alert     types.Alert `json:"alert"`
}

// Sink is an alert destination.
type Sink interface {
	Send(ctx context.Context, env Envelope) error
	Name() string
}

// Dispatcher routes alerts to configured sinks.
type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher from sink configs.
func NewDispatcher(configs []types.SinkConfig) (*Dispatcher, error) {
	d := &Dispatcher{logger: slog.Default().With("component", "dispatcher")}
	for _, cfg := range configs {
		sink, err := newSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating %s sink: %w", cfg.Type, err)
		}
		d.sinks = append(d.sinks, sink)
	}
	return d, nil
}

// NewDispatcherWithSinks creates a dispatcher over already-built sinks.
func NewDispatcherWithSinks(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, logger: slog.Default().With("component", "dispatcher")}
}

// Sinks reports how many sinks the dispatcher delivers to.
func (d *Dispatcher) Sinks() int {
	return len(d.sinks)
}

// Dispatch wraps the alert in a delivery envelope and fans it out to every
// sink. Sink failures are logged and counted, never propagated: a delivery
// problem must not fail the detection run that produced the alert.
func (d *Dispatcher) Dispatch(ctx context.Context, feature string, a types.Alert) {
	env := Envelope{
		ID:        ulid.Make().String(),
		Timestamp: time.Now().UTC(),
		Feature:   feature,
		Alert:     a,
	}
	metrics.AlertsTotal.WithLabelValues(string(a.Metric), string(a.Severity)).Inc()
	for _, sink := range d.sinks {
		if err := sink.Send(ctx, env); err != nil {
			metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
			d.logger.Error("alert delivery failed",
				"sink", sink.Name(),
				"alert", env.ID,
				"error", err,
			)
		}
	}
}

func newSink(cfg types.SinkConfig) (Sink, error) {
	switch cfg.Type {
	case types.SinkConsole:
		return NewConsoleSink(), nil
	case types.SinkFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file sink requires a path")
		}
		return NewFileSink(cfg.Path)
	case types.SinkWebhook:
		if cfg.URL == "" {
			return nil, fmt.Errorf("webhook sink requires a url")
		}
		return NewWebhookSink(cfg.URL), nil
	case types.SinkKafka:
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("kafka sink requires brokers and a topic")
		}
		return NewKafkaSink(cfg.Brokers, cfg.Topic), nil
	case types.SinkSNS:
		if cfg.TopicARN == "" {
			return nil, fmt.Errorf("sns sink requires a topicArn")
		}
		return NewSNSSink(cfg.TopicARN)
	case types.SinkS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 sink requires a bucket")
		}
		return NewS3Sink(cfg.Bucket, cfg.Prefix)
	case types.SinkPubSub:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, fmt.Errorf("pubsub sink requires a projectId and a topicId")
		}
		return NewPubSubSink(cfg.ProjectID, cfg.TopicID)
	default:
		return nil, fmt.Errorf("unknown sink type %q", cfg.Type)
	}
}
