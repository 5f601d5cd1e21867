package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	def := 0.1
	cfg := &types.Config{
		Metrics: map[types.Metric]types.MetricConfig{
			types.MetricPSI: {
				DefaultThreshold:  &def,
				FeatureThresholds: map[string]float64{"price": 0.25},
			},
		},
	}
	srv := New(":0", cfg)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postDetect(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/detect", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestDetectEndpoint_Drift(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{
		"reference": [1, 2, 3, 4, 5],
		"current": [10, 20, 30, 40, 50],
		"metric": "psi",
		"threshold": 0.01
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["drift_detected"])

	alerts, ok := body["alerts"].([]any)
	require.True(t, ok)
	require.Len(t, alerts, 1)
	alert := alerts[0].(map[string]any)
	assert.Equal(t, true, alert["alert"])
	assert.Equal(t, "Drift detected using psi metric", alert["message"])

	metrics, ok := body["metrics"].(map[string]any)
	require.True(t, ok)
	_, isNumber := metrics["psi"].(float64)
	assert.True(t, isNumber)

	window := body["window"].(map[string]any)
	assert.Equal(t, 5.0, window["reference_size"])
	assert.Equal(t, 5.0, window["current_size"])
}

func TestDetectEndpoint_NoDrift(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{
		"reference": [1, 2, 3, 4, 5],
		"current": [1, 2, 3, 4, 5],
		"metric": "psi",
		"threshold": 0.5
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["drift_detected"])
	alerts, ok := body["alerts"].([]any)
	require.True(t, ok)
	assert.Len(t, alerts, 0)
}

func TestDetectEndpoint_ThresholdFromConfig(t *testing.T) {
	ts := setupTestServer(t)

	// No threshold in the request: the feature override from config applies.
	resp, body := postDetect(t, ts, `{
		"reference": [1, 2, 3, 4, 5],
		"current": [1, 2, 3, 4, 5],
		"metric": "psi",
		"feature": "price"
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["drift_detected"])
}

func TestDetectEndpoint_ThresholdUnresolvable(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{
		"reference": [1, 2],
		"current": [1, 2],
		"metric": "ks"
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], `metric "ks" is not configured`)
}

func TestDetectEndpoint_ChiSquareCategorical(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{
		"reference": ["a", "a", "b", "b"],
		"current": ["a", "b", "b", "b"],
		"metric": "chi_square",
		"threshold": 0.05,
		"featureType": "categorical"
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["drift_detected"])

	metrics := body["metrics"].(map[string]any)
	chi, ok := metrics["chi_square"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, chi, "statistic")
	assert.Contains(t, chi, "p_value")
}

func TestDetectEndpoint_UnsupportedMetric(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{
		"reference": [1, 2],
		"current": [1, 2],
		"metric": "wasserstein",
		"threshold": 0.1
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unsupported metric: wasserstein")
}

func TestDetectEndpoint_TypeMismatch(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{
		"reference": ["red", "green"],
		"current": ["red", "blue"],
		"metric": "psi",
		"threshold": 0.1,
		"featureType": "categorical"
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "requires numerical data")
}

func TestDetectEndpoint_RejectsNonScalarValues(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{
		"reference": [1, true, 3],
		"current": [1, 2, 3],
		"metric": "psi",
		"threshold": 0.1
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "reference values must be numbers or strings")
}

func TestDetectEndpoint_InvalidJSON(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := postDetect(t, ts, `{"reference": [1,`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid JSON", body["error"])
}

func TestMetricsInfoEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/metrics-info")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 3)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info["name"].(string))
	}
	assert.Equal(t, []string{"psi", "ks", "chi_square"}, names)
}

func TestMetricsEndpoint_PrometheusExposition(t *testing.T) {
	ts := setupTestServer(t)

	// A detection first, so the counter vectors have series to expose.
	_, _ = postDetect(t, ts, `{
		"reference": [1, 2, 3, 4, 5],
		"current": [10, 20, 30, 40, 50],
		"metric": "psi",
		"threshold": 0.01
	}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "driftwatch_detections_total")
}

func TestRequestIDHeader(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}
