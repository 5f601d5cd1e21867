package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/internal/dataset"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/internal/pipeline"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// detectRequest is the POST /api/v1/detect body. Reference and current hold
// raw sample values; numbers keep their source literals so integer and
// continuous columns classify the same way they do from CSV input.
type detectRequest struct {
	Reference   []any             `json:"reference"`
	Current     []any             `json:"current"`
	Metric      types.Metric      `json:"metric"`
	Threshold   *float64          `json:"threshold,omitempty"`
	FeatureType types.FeatureType `json:"featureType,omitempty"`
	Feature     string            `json:"feature,omitempty"`
}

// Detect runs one drift detection over the posted sample pair.
func (h *Handlers) Detect(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req detectRequest
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", err)
		return
	}

	ref, err := sampleTable("reference", req.Reference, req.Feature)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), err)
		return
	}
	curr, err := sampleTable("current", req.Current, req.Feature)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), err)
		return
	}

	threshold, err := h.resolveThreshold(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), err)
		return
	}

	_, span := otel.Tracer("driftwatch/server").Start(r.Context(), "drift.detect")
	span.SetAttributes(
		attribute.String("drift.metric", string(req.Metric)),
		attribute.String("drift.feature", req.Feature),
	)
	report, err := pipeline.Run(ref, curr, req.FeatureType, req.Metric, threshold)
	if err != nil {
		span.RecordError(err)
		span.End()
		status := http.StatusInternalServerError
		if errors.Is(err, drift.ErrValidation) || errors.Is(err, drift.ErrType) {
			status = http.StatusBadRequest
		}
		h.writeError(w, status, err.Error(), err)
		return
	}
	span.SetAttributes(attribute.Bool("drift.detected", report.DriftDetected))
	span.End()

	_ = json.NewEncoder(w).Encode(report)
}

func (h *Handlers) resolveThreshold(req detectRequest) (float64, error) {
	if req.Threshold != nil {
		return *req.Threshold, nil
	}
	return config.Threshold(h.cfg, req.Metric, req.Feature)
}

// sampleTable turns a posted value array into a single-column table. JSON
// numbers are carried by their original literal, strings verbatim.
func sampleTable(side string, values []any, feature string) (*dataset.Table, error) {
	column := feature
	if column == "" {
		column = "feature"
	}
	rows := make([][]string, len(values))
	for i, v := range values {
		switch e := v.(type) {
		case json.Number:
			rows[i] = []string{e.String()}
		case string:
			rows[i] = []string{e}
		default:
			return nil, drift.NewValidationError("%s values must be numbers or strings, got %s", side, jsonKind(v))
		}
	}
	return dataset.New([]string{column}, rows), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
