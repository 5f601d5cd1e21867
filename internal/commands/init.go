package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Initialize a new driftwatch project",
		Long:  "Creates a starter config and an example dataset pair to run detections against.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0])
		},
	}
	return cmd
}

func runInit(projectName string) error {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Initializing driftwatch project: %s\n", projectName)

	if err := os.MkdirAll(filepath.Join(projectName, "data"), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	configPath := filepath.Join(projectName, "driftwatch.yaml")
	configContent := `metrics:
  psi:
    defaultThreshold: 0.2
  ks:
    defaultThreshold: 0.15
  chi_square:
    defaultThreshold: 0.05

alerts:
  - type: console

server:
  addr: ":8080"

watch:
  interval: 5m
  jobs:
    - name: example
      reference: data/reference.csv
      current: data/current.csv
      metric: psi
      feature: value
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// The example pair is shifted far enough that the first detection fires.
	referenceContent := `value
10.2
9.8
10.5
10.1
9.6
10.4
9.9
10.3
10.0
9.7
`
	currentContent := `value
15.1
14.7
15.4
15.0
14.5
15.3
14.8
15.2
14.9
15.6
`
	if err := os.WriteFile(filepath.Join(projectName, "data", "reference.csv"), []byte(referenceContent), 0o644); err != nil {
		return fmt.Errorf("writing example reference: %w", err)
	}
	if err := os.WriteFile(filepath.Join(projectName, "data", "current.csv"), []byte(currentContent), 0o644); err != nil {
		return fmt.Errorf("writing example current: %w", err)
	}

	color.Green("  ✓ Project scaffolded")

	fmt.Println()
	_, _ = bold.Println("Next steps:")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Println("  driftwatch detect data/reference.csv data/current.csv --metric psi --config driftwatch.yaml")
	fmt.Println("  driftwatch serve")
	return nil
}
