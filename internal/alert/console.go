package alert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// ConsoleSink prints alerts to stderr, leaving stdout to the report output.
type ConsoleSink struct {
	out io.Writer
}

// NewConsoleSink creates a console sink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{out: os.Stderr}
}

// Send prints the alert with a color-coded severity prefix.
func (s *ConsoleSink) Send(_ context.Context, env Envelope) error {
	prefix := color.YellowString("[WARNING]")
	if env.Alert.Severity == types.SeverityCritical {
		prefix = color.RedString("[CRITICAL]")
	}
	if env.Feature != "" {
		fmt.Fprintf(s.out, "%s %s (feature=%s, metric=%s)\n", prefix, env.Alert.Message, env.Feature, env.Alert.Metric)
		return nil
	}
	fmt.Fprintf(s.out, "%s %s (metric=%s)\n", prefix, env.Alert.Message, env.Alert.Metric)
	return nil
}

// Name returns the sink name.
func (s *ConsoleSink) Name() string {
	return "console"
}
