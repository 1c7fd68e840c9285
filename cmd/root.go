package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags for `yoetz run`
	scenarioPath    string // Scenario YAML file
	logLevel        string // Log verbosity level
	presetName      string // Policy preset from defaults.yaml
	defaultsPath    string // Presets file
	marginFlag      string // Hysteresis margin override
	seedFlag        int64  // Seed override
	ticksFlag       int    // Tick count override
	traceLevelFlag  string // Trace level override
	counterfactualK int    // Counterfactual candidates per trace record
	traceDBPath     string // SQLite trace export
	traceJSONPath   string // JSON trace export
	metricsPath     string // Prometheus text dump ("-" for stdout)
	workers         int    // Max entities evaluated concurrently
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "yoetz",
	Short: "Suggestion-driven behavior selection for game agents",
}

// runCmd executes a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario and print a decision summary",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		opts := runOptions{
			ScenarioPath:    scenarioPath,
			Preset:          presetName,
			DefaultsPath:    defaultsPath,
			Margin:          marginFlag,
			TraceLevel:      traceLevelFlag,
			CounterfactualK: -1,
			TraceDBPath:     traceDBPath,
			TraceJSONPath:   traceJSONPath,
			MetricsPath:     metricsPath,
			Workers:         workers,
		}
		if cmd.Flags().Changed("seed") {
			opts.Seed = &seedFlag
		}
		if cmd.Flags().Changed("ticks") {
			opts.Ticks = ticksFlag
		}
		if cmd.Flags().Changed("counterfactual-k") {
			opts.CounterfactualK = counterfactualK
		}

		if err := runScenario(context.Background(), opts, os.Stdout); err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		logrus.Info("Run complete.")
	},
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to scenario YAML file")
	_ = runCmd.MarkFlagRequired("scenario")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Policy
	runCmd.Flags().StringVar(&presetName, "preset", "", "Policy preset from the defaults file (responsive, sticky, stubborn)")
	runCmd.Flags().StringVar(&defaultsPath, "defaults", "defaults.yaml", "Path to the policy presets file")
	runCmd.Flags().StringVar(&marginFlag, "margin", "", "Hysteresis margin; overrides scenario and preset")

	// Run shape
	runCmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed override for curve evaluators")
	runCmd.Flags().IntVar(&ticksFlag, "ticks", 0, "Tick count override")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Max entities evaluated concurrently (0 = unbounded)")

	// Outputs
	runCmd.Flags().StringVar(&traceLevelFlag, "trace-level", "", "Trace level override (none, changes, decisions)")
	runCmd.Flags().IntVar(&counterfactualK, "counterfactual-k", 0, "Counterfactual candidates per trace record")
	runCmd.Flags().StringVar(&traceDBPath, "trace-db", "", "Write the decision trace to this SQLite file")
	runCmd.Flags().StringVar(&traceJSONPath, "trace-json", "", "Write the decision trace to this JSON file")
	runCmd.Flags().StringVar(&metricsPath, "metrics", "", "Write Prometheus metrics text to this file (- for stdout)")

	rootCmd.AddCommand(runCmd)
}
