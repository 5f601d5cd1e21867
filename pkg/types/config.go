package types

// Config is the root driftwatch configuration.
type Config struct {
	Metrics map[Metric]MetricConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" validate:"dive"`
	Alerts  []SinkConfig            `yaml:"alerts,omitempty" json:"alerts,omitempty" validate:"dive"`
	Server  ServerConfig            `yaml:"server,omitempty" json:"server,omitempty"`
	Watch   WatchConfig             `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// MetricConfig holds the detection thresholds for one metric.
// DefaultThreshold is a pointer so an absent default is distinguishable
// from an explicit zero, which threshold resolution must reject.
type MetricConfig struct {
	DefaultThreshold  *float64           `yaml:"defaultThreshold,omitempty" json:"defaultThreshold,omitempty" validate:"omitempty,gt=0"`
	FeatureThresholds map[string]float64 `yaml:"featureThresholds,omitempty" json:"featureThresholds,omitempty" validate:"omitempty,dive,gt=0"`
}

// SinkConfig configures one alert sink.
type SinkConfig struct {
	Type SinkType `yaml:"type" json:"type" validate:"required,oneof=console file webhook kafka sns s3 pubsub"`

	// file sink
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// webhook sink
	URL string `yaml:"url,omitempty" json:"url,omitempty" validate:"omitempty,url"`

	// kafka sink
	Brokers []string `yaml:"brokers,omitempty" json:"brokers,omitempty" validate:"omitempty,min=1,dive,hostname_port"`
	Topic   string   `yaml:"topic,omitempty" json:"topic,omitempty"`

	// sns sink
	TopicARN string `yaml:"topicArn,omitempty" json:"topicArn,omitempty"`

	// s3 sink
	Bucket string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// pubsub sink
	ProjectID string `yaml:"projectId,omitempty" json:"projectId,omitempty"`
	TopicID   string `yaml:"topicId,omitempty" json:"topicId,omitempty"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

// WatchConfig configures the scheduled drift watcher.
type WatchConfig struct {
	Interval string      `yaml:"interval,omitempty" json:"interval,omitempty"`
	Jobs     []JobConfig `yaml:"jobs,omitempty" json:"jobs,omitempty" validate:"dive"`
}

// JobConfig is one watched reference/current file pair.
type JobConfig struct {
	Name        string      `yaml:"name" json:"name" validate:"required"`
	Reference   string      `yaml:"reference" json:"reference" validate:"required"`
	Current     string      `yaml:"current" json:"current" validate:"required"`
	Metric      Metric      `yaml:"metric" json:"metric" validate:"required,oneof=psi ks chi_square"`
	Feature     string      `yaml:"feature,omitempty" json:"feature,omitempty"`
	FeatureType FeatureType `yaml:"featureType,omitempty" json:"featureType,omitempty" validate:"omitempty,oneof=numerical categorical"`
	Threshold   *float64    `yaml:"threshold,omitempty" json:"threshold,omitempty" validate:"omitempty,gt=0"`
}
