package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/watcher"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// captureSink collects dispatched envelopes; jobs run concurrently, so all
// access goes through the mutex.
type captureSink struct {
	mu        sync.Mutex
	envelopes []alert.Envelope
}

func (s *captureSink) Send(_ context.Context, env alert.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelopes = append(s.envelopes, env)
	return nil
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.envelopes)
}

func (s *captureSink) first() alert.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.envelopes[0]
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func watchConfig(jobs ...types.JobConfig) *types.Config {
	def := 0.1
	return &types.Config{
		Metrics: map[types.Metric]types.MetricConfig{
			types.MetricPSI: {DefaultThreshold: &def},
		},
		Watch: types.WatchConfig{Interval: "20ms", Jobs: jobs},
	}
}

func startWatcher(t *testing.T, cfg *types.Config, sink alert.Sink) {
	t.Helper()
	w := watcher.New(cfg, alert.NewDispatcherWithSinks(sink), nil)
	w.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		w.Stop(ctx)
	})
}

func TestWatcher_DispatchesAlertOnDrift(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "reference.csv")
	curr := filepath.Join(dir, "current.csv")
	writeFile(t, ref, "price\n1\n2\n3\n4\n5\n")
	writeFile(t, curr, "price\n10\n20\n30\n40\n50\n")

	sink := &captureSink{}
	startWatcher(t, watchConfig(types.JobConfig{
		Name:      "prices",
		Reference: ref,
		Current:   curr,
		Metric:    types.MetricPSI,
	}), sink)

	require.Eventually(t, func() bool { return sink.count() > 0 }, 2*time.Second, 10*time.Millisecond)

	env := sink.first()
	assert.Equal(t, "price", env.Feature)
	assert.True(t, env.Alert.Alert)
	assert.Equal(t, types.MetricPSI, env.Alert.Metric)
	assert.Equal(t, types.SeverityCritical, env.Alert.Severity)
	assert.NotEmpty(t, env.ID)
}

func TestWatcher_NoDriftNoDispatch(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "reference.csv")
	curr := filepath.Join(dir, "current.csv")
	writeFile(t, ref, "price\n1\n2\n3\n4\n5\n")
	writeFile(t, curr, "price\n1\n2\n3\n4\n5\n")

	sink := &captureSink{}
	startWatcher(t, watchConfig(types.JobConfig{
		Name:      "prices",
		Reference: ref,
		Current:   curr,
		Metric:    types.MetricPSI,
	}), sink)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, sink.count())
}

func TestWatcher_PicksUpFileChanges(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "reference.csv")
	curr := filepath.Join(dir, "current.csv")
	writeFile(t, ref, "price\n1\n2\n3\n4\n5\n")
	writeFile(t, curr, "price\n1\n2\n3\n4\n5\n")

	sink := &captureSink{}
	startWatcher(t, watchConfig(types.JobConfig{
		Name:      "prices",
		Reference: ref,
		Current:   curr,
		Metric:    types.MetricPSI,
	}), sink)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, sink.count())

	// Files are re-read every cycle, so a content change shows up without a
	// watcher restart.
	writeFile(t, curr, "price\n10\n20\n30\n40\n50\n")
	require.Eventually(t, func() bool { return sink.count() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_FailingJobLeavesOthersRunning(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "reference.csv")
	curr := filepath.Join(dir, "current.csv")
	writeFile(t, ref, "price\n1\n2\n3\n4\n5\n")
	writeFile(t, curr, "price\n10\n20\n30\n40\n50\n")

	sink := &captureSink{}
	startWatcher(t, watchConfig(
		types.JobConfig{
			Name:      "broken",
			Reference: filepath.Join(dir, "missing.csv"),
			Current:   curr,
			Metric:    types.MetricPSI,
		},
		types.JobConfig{
			Name:      "prices",
			Reference: ref,
			Current:   curr,
			Metric:    types.MetricPSI,
		},
	), sink)

	require.Eventually(t, func() bool { return sink.count() > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "price", sink.first().Feature)
}
