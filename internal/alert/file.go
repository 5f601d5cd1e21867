package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileSink appends alerts to a file, one JSON envelope per line.
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink creates a file sink, verifying the path is writable.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening alert file: %w", err)
	}
	f.Close()
	return &FileSink{path: path}, nil
}

// Send appends the envelope as a JSON line.
func (s *FileSink) Send(_ context.Context, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening alert file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling alert: %w", err)
	}
	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing alert: %w", err)
	}
	return nil
}

// Name returns the sink name.
func (s *FileSink) Name() string {
	return "file"
}
