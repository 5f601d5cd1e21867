package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/internal/telemetry"
	"github.com/driftwatch-systems/driftwatch/internal/watcher"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run scheduled drift checks over configured dataset pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "driftwatch.yaml", "path to driftwatch.yaml")
	return cmd
}

func runWatch(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if len(cfg.Watch.Jobs) == 0 {
		return fmt.Errorf("no watch jobs configured")
	}

	dispatcher, err := alert.NewDispatcher(cfg.Alerts)
	if err != nil {
		return fmt.Errorf("creating alert dispatcher: %w", err)
	}

	shutdownTelemetry, err := telemetry.Init(context.Background(), "driftwatch", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	w := watcher.New(cfg, dispatcher, slog.Default())
	w.Start(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	color.Yellow("\nReceived %s, shutting down...", sig)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	w.Stop(shutdownCtx)
	_ = shutdownTelemetry(shutdownCtx)
	color.Green("Watcher stopped gracefully")
	return nil
}
