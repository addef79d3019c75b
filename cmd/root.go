// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anshjyot/hsa/sim"
	"github.com/anshjyot/hsa/sim/emit"
	"github.com/anshjyot/hsa/sim/ingest"
	"github.com/anshjyot/hsa/sim/trace"
)

var (
	logLevel     string
	dt           float64
	horizon      float64
	outputPath   string
	traceLevel   string
	tuningConfig string
	simulate     bool
)

var rootCmd = &cobra.Command{
	Use:   "hsa <test-case-dir>",
	Short: "Hierarchical real-time schedulability analyzer and simulator",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysis,
}

// Execute runs the root command. Returns a non-zero process exit on any
// input-shape error (§7 kind 1) per §6's CLI contract: "exit 0 on
// completion; non-zero if an input is missing or malformed."
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logrus.SetLevel(level)

	if !trace.IsValidLevel(traceLevel) {
		return fmt.Errorf("invalid trace level %q", traceLevel)
	}

	testCaseDir := args[0]
	logrus.Infof("loading test case from %s", testCaseDir)

	model, err := ingest.LoadDirectory(testCaseDir)
	if err != nil {
		return fmt.Errorf("loading test case: %w", err)
	}

	runConfig := sim.DefaultRunConfig()
	if dt > 0 {
		runConfig.Dt = dt
	}
	runConfig.Horizon = horizon
	if runConfig.Horizon <= 0 {
		runConfig.Horizon = sim.DefaultHorizon(model)
	}

	analysisConfig := sim.DefaultAnalysisConfig()
	if tuningConfig != "" {
		bundle, err := sim.LoadTuningBundle(tuningConfig)
		if err != nil {
			return fmt.Errorf("loading tuning config: %w", err)
		}
		runConfig, analysisConfig = bundle.ApplyTo(runConfig, analysisConfig)
	}

	logrus.Info("running hierarchical schedulability analysis")
	verdict := sim.Analyze(model, analysisConfig)

	var simResults map[string]sim.TaskSimResult
	if simulate {
		logrus.Infof("running simulation: dt=%g horizon=%g", runConfig.Dt, runConfig.Horizon)
		simulator := sim.NewSimulator(model, runConfig)

		run := trace.NewRun(trace.Config{Level: trace.Level(traceLevel)})
		simulator.SetTrace(run)

		simResults = simulator.Run()

		summary := trace.Summarize(run)
		logrus.Infof("trace %s: %d dispatches, %d misses", run.ID, summary.TotalDispatches, summary.TotalMisses)
	}

	rows := emit.BuildRows(model, verdict, simResults)
	if err := emit.WriteCSV(rows, outputPath); err != nil {
		return fmt.Errorf("writing solution: %w", err)
	}

	logrus.Infof("wrote %d task results to %s", len(rows), outputPath)
	sim.NewSummary(model, verdict, simResults).Print()
	return nil
}

func init() {
	rootCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().Float64Var(&dt, "dt", 0.1, "Simulation step size")
	rootCmd.Flags().Float64Var(&horizon, "horizon", 0, "Simulation horizon (0 = derive from 2*lcm(periods))")
	rootCmd.Flags().StringVar(&outputPath, "out", "solution.csv", "Solution CSV output path")
	rootCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	rootCmd.Flags().StringVar(&tuningConfig, "tuning-config", "", "Optional YAML run-tuning config path")
	rootCmd.Flags().BoolVar(&simulate, "simulate", true, "Also run the discrete-time simulator cross-check")
}
