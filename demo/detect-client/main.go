// Command detect-client sends a pair of drift checks to a running driftwatch
// server and prints each report to stdout.
//
// Usage:
//
//	driftwatch serve --config demo/driftwatch.yaml &
//	go run ./demo/detect-client
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type check struct {
	name    string
	payload map[string]any
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	addr := flag.String("addr", "http://localhost:8080", "driftwatch server base URL")
	flag.Parse()

	checks := []check{
		{
			name: "price-shift",
			payload: map[string]any{
				"reference": []float64{99.2, 101.5, 100.4, 98.9, 100.1, 99.7, 101.0, 100.6},
				"current":   []float64{131.8, 129.4, 130.2, 132.5, 128.9, 131.1, 130.7, 129.8},
				"metric":    "psi",
				"threshold": 0.2,
				"feature":   "price",
			},
		},
		{
			name: "plan-mix",
			payload: map[string]any{
				"reference":   []string{"free", "free", "free", "pro", "pro", "enterprise"},
				"current":     []string{"free", "pro", "pro", "enterprise", "enterprise", "enterprise"},
				"metric":      "chi_square",
				"threshold":   0.05,
				"feature":     "plan",
				"featureType": "categorical",
			},
		},
	}

	client := &http.Client{Timeout: 10 * time.Second}
	for _, c := range checks {
		if err := run(client, *addr, c); err != nil {
			slog.Error("check failed", "check", c.name, "error", err)
			os.Exit(1)
		}
	}
}

func run(client *http.Client, addr string, c check) error {
	body, err := json.Marshal(c.payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(addr+"/api/v1/detect", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var report map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %v", resp.StatusCode, report["error"])
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	slog.Info("check complete", "check", c.name, "drift", report["drift_detected"])
	fmt.Println(string(out))
	return nil
}
