// Package handlers implements HTTP request handlers for the driftwatch API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	cfg    *types.Config
	logger *slog.Logger
}

// New creates a new Handlers instance.
func New(cfg *types.Config) *Handlers {
	return &Handlers{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// writeError logs the internal error and returns a JSON error to the client.
func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		h.logger.Error(msg, "error", err, "status", status)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
