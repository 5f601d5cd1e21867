package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaWriter is the subset of kafka.Writer used by the sink.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes alerts to a Kafka topic, keyed by feature so alerts
// for one feature land in one partition.
type KafkaSink struct {
	writer kafkaWriter
}

// KafkaSinkOption configures a KafkaSink.
type KafkaSinkOption func(*KafkaSink)

// WithKafkaWriter overrides the Kafka writer, primarily for testing.
func WithKafkaWriter(w kafkaWriter) KafkaSinkOption {
	return func(s *KafkaSink) {
		s.writer = w
	}
}

// NewKafkaSink creates a Kafka sink.
func NewKafkaSink(brokers []string, topic string, opts ...KafkaSinkOption) *KafkaSink {
	s := &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send publishes the envelope as a JSON message.
func (s *KafkaSink) Send(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling alert: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(env.Feature),
		Value: data,
		Time:  env.Timestamp,
		Headers: []kafka.Header{
			{Key: "severity", Value: []byte(env.Alert.Severity)},
			{Key: "metric", Value: []byte(env.Alert.Metric)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing alert: %w", err)
	}
	return nil
}

// Name returns the sink name.
func (s *KafkaSink) Name() string {
	return "kafka"
}
