package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// PubSubAPI is the subset of the Pub/Sub client used by PubSubSink.
type PubSubAPI interface {
	Publish(ctx context.Context, msg *pubsub.Message) (string, error)
}

// pubsubTopicWrapper adapts a *pubsub.Topic to PubSubAPI.
type pubsubTopicWrapper struct {
	topic *pubsub.Topic
}

func (w *pubsubTopicWrapper) Publish(ctx context.Context, msg *pubsub.Message) (string, error) {
	result := w.topic.Publish(ctx, msg)
	return result.Get(ctx)
}

// PubSubSink publishes alert envelopes to a Pub/Sub topic.
type PubSubSink struct {
	client PubSubAPI
}

// PubSubSinkOption configures a PubSubSink.
type PubSubSinkOption func(*PubSubSink)

// WithPubSubClient sets a custom Pub/Sub client (useful for testing).
func WithPubSubClient(c PubSubAPI) PubSubSinkOption {
	return func(s *PubSubSink) { s.client = c }
}

// NewPubSubSink creates a new Pub/Sub alert sink.
func NewPubSubSink(projectID, topicID string, opts ...PubSubSinkOption) (*PubSubSink, error) {
	if topicID == "" {
		return nil, fmt.Errorf("Pub/Sub topic ID required")
	}
	s := &PubSubSink{}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		if projectID == "" {
			return nil, fmt.Errorf("Pub/Sub project ID required")
		}
		client, err := pubsub.NewClient(context.Background(), projectID)
		if err != nil {
			return nil, fmt.Errorf("creating Pub/Sub client: %w", err)
		}
		s.client = &pubsubTopicWrapper{topic: client.Topic(topicID)}
	}
	return s, nil
}

// Name returns the sink identifier.
func (s *PubSubSink) Name() string { return "pubsub" }

// Send publishes the envelope as JSON. Severity and metric ride along as
// message attributes so subscribers can filter without decoding the body.
func (s *PubSubSink) Send(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling alert: %w", err)
	}

	_, err = s.client.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"severity": string(env.Alert.Severity),
			"metric":   string(env.Alert.Metric),
		},
	})
	if err != nil {
		return fmt.Errorf("publishing to Pub/Sub: %w", err)
	}

	return nil
}
