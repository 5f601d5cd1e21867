package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/commands"
)

var version = "dev"

// logLevel reads DRIFTWATCH_LOG_LEVEL (debug, info, warn, error), info when
// unset or unparseable.
func logLevel() slog.Level {
	level := slog.LevelInfo
	if v := os.Getenv("DRIFTWATCH_LOG_LEVEL"); v != "" {
		_ = level.UnmarshalText([]byte(v))
	}
	return level
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	})))

	root := &cobra.Command{
		Use:   "driftwatch",
		Short: "Distributional drift detection for tabular datasets",
		Long: `Driftwatch compares a reference (baseline) dataset against a current one
and reports distributional drift. It computes one of three divergence
metrics per run (PSI, Kolmogorov-Smirnov, chi-square), gates the result
against a threshold, and turns a positive detection into a structured,
severity-tagged alert.

Exit status: 0 when no drift was detected, 2 when drift was detected,
1 on any error.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewDetectCmd(),
		commands.NewWindowCmd(),
		commands.NewServeCmd(),
		commands.NewWatchCmd(),
	)

	if err := root.Execute(); err != nil {
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
