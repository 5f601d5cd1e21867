package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

func testEnvelope(severity types.Severity) Envelope {
	return Envelope{
		ID:        "01J8ZX4N9GQ5M2KJ3W7VBT0QRD",
		Timestamp: time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC),
		Feature:   "price",
		Alert: types.Alert{
			Alert:    true,
			Severity: severity,
			Metric:   types.MetricPSI,
			Message:  "Drift detected using psi metric",
			Details: map[string]any{
				"metric":    "psi",
				"threshold": 0.1,
				"value":     0.25,
			},
		},
	}
}

func TestConsoleSink_Send(t *testing.T) {
	sink := NewConsoleSink()
	assert.Equal(t, "console", sink.Name())

	ctx := context.Background()
	for _, severity := range []types.Severity{types.SeverityWarning, types.SeverityCritical} {
		err := sink.Send(ctx, testEnvelope(severity))
		assert.NoError(t, err)
	}
}

func TestConsoleSink_Send_WritesSeverityPrefix(t *testing.T) {
	var buf bytes.Buffer
	sink := &ConsoleSink{out: &buf}

	require.NoError(t, sink.Send(context.Background(), testEnvelope(types.SeverityCritical)))

	out := buf.String()
	assert.Contains(t, out, "[CRITICAL]")
	assert.Contains(t, out, "Drift detected using psi metric")
	assert.Contains(t, out, "feature=price")
}

func TestWebhookSink_Send_Success(t *testing.T) {
	var received []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		buf := make([]byte, 4096)
		n, _ := r.Body.Read(buf)
		received = buf[:n]
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	sink := NewWebhookSink(ts.URL)
	env := testEnvelope(types.SeverityWarning)

	err := sink.Send(context.Background(), env)
	require.NoError(t, err)

	var got Envelope
	require.NoError(t, json.Unmarshal(received, &got))
	assert.Equal(t, env.ID, got.ID)
	assert.Equal(t, env.Alert.Message, got.Alert.Message)
	assert.Equal(t, env.Feature, got.Feature)
}

func TestWebhookSink_Send_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	sink := NewWebhookSink(ts.URL)

	err := sink.Send(context.Background(), testEnvelope(types.SeverityWarning))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWebhookSink_Send_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	sink := NewWebhookSink(ts.URL)
	env := testEnvelope(types.SeverityCritical)

	for i := 0; i < 3; i++ {
		assert.Error(t, sink.Send(context.Background(), env))
	}

	err := sink.Send(context.Background(), env)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "503")
}

func TestFileSink_Send(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "alert-*.jsonl")
	require.NoError(t, err)
	_ = f.Close()

	sink, err := NewFileSink(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "file", sink.Name())

	env := testEnvelope(types.SeverityWarning)
	require.NoError(t, sink.Send(context.Background(), env))

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var got Envelope
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, env.Alert.Message, got.Alert.Message)
}

func TestFileSink_Send_AppendsOneLinePerAlert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.jsonl")
	sink, err := NewFileSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Send(context.Background(), testEnvelope(types.SeverityWarning)))
	require.NoError(t, sink.Send(context.Background(), testEnvelope(types.SeverityCritical)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
}

func TestFileSink_UnwritablePath(t *testing.T) {
	_, err := NewFileSink(filepath.Join(t.TempDir(), "missing", "alerts.jsonl"))
	assert.Error(t, err)
}

// errSink is a test sink that always returns an error.
type errSink struct{}

func (s *errSink) Send(_ context.Context, _ Envelope) error { return fmt.Errorf("sink error") }
func (s *errSink) Name() string                             { return "error-sink" }

// recordSink records all envelopes sent to it.
type recordSink struct {
	envelopes []Envelope
}

func (s *recordSink) Send(_ context.Context, env Envelope) error {
	s.envelopes = append(s.envelopes, env)
	return nil
}
func (s *recordSink) Name() string { return "record-sink" }

func TestDispatcher_MultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	d := &Dispatcher{sinks: []Sink{s1, s2}, logger: slog.Default()}

	d.Dispatch(context.Background(), "price", testEnvelope(types.SeverityWarning).Alert)

	require.Len(t, s1.envelopes, 1)
	require.Len(t, s2.envelopes, 1)

	// Both sinks see the same envelope: one ID, one timestamp per dispatch.
	assert.Equal(t, s1.envelopes[0].ID, s2.envelopes[0].ID)
	assert.NotEmpty(t, s1.envelopes[0].ID)
	assert.False(t, s1.envelopes[0].Timestamp.IsZero())
	assert.Equal(t, "price", s1.envelopes[0].Feature)
}

func TestDispatcher_SinkError_ContinuesOthers(t *testing.T) {
	failing := &errSink{}
	recording := &recordSink{}
	d := &Dispatcher{
		sinks:  []Sink{failing, recording},
		logger: slog.Default(),
	}

	d.Dispatch(context.Background(), "price", testEnvelope(types.SeverityCritical).Alert)

	// Even though first sink failed, second should have received the alert
	assert.Len(t, recording.envelopes, 1)
}

func TestNewDispatcher_BuildsConfiguredSinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.jsonl")
	d, err := NewDispatcher([]types.SinkConfig{
		{Type: types.SinkConsole},
		{Type: types.SinkFile, Path: path},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Sinks())
}

func TestNewDispatcher_UnknownSinkType(t *testing.T) {
	_, err := NewDispatcher([]types.SinkConfig{{Type: types.SinkType("pager")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown sink type "pager"`)
}

func TestNewSink_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  types.SinkConfig
		want string
	}{
		{"file without path", types.SinkConfig{Type: types.SinkFile}, "requires a path"},
		{"webhook without url", types.SinkConfig{Type: types.SinkWebhook}, "requires a url"},
		{"kafka without brokers", types.SinkConfig{Type: types.SinkKafka, Topic: "alerts"}, "requires brokers"},
		{"sns without arn", types.SinkConfig{Type: types.SinkSNS}, "requires a topicArn"},
		{"s3 without bucket", types.SinkConfig{Type: types.SinkS3, Prefix: "alerts"}, "requires a bucket"},
		{"pubsub without project", types.SinkConfig{Type: types.SinkPubSub, TopicID: "alerts"}, "requires a projectId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newSink(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
