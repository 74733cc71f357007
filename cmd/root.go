package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/hall-sim/sim"
	"github.com/inference-sim/hall-sim/sim/trace"
)

var (
	// CLI flags for the run command
	seed         int64  // Master seed for every random delay
	logLevel     string // Log verbosity level
	outputPath   string // Text event log path ("" disables it)
	eventsDBPath string // SQLite event store path ("" disables it)
	configPath   string // YAML run configuration, instead of positional values
	printSummary bool   // Print a YAML result report on stdout
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "hall-sim",
	Short:         "Concurrent simulation of a hall shared by applicants and one official",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runCmd executes the simulation using the 5 run values and CLI flags
var runCmd = &cobra.Command{
	Use:   "run [applicants spawn-ms official-wait-ms certificate-ms decision-ms]",
	Short: "Run the hall simulation",
	Long: `Run the hall simulation.

The run is configured either by exactly five integers, in order: number of
applicants (> 0), maximum pause between applicant arrivals, maximum official
wait, maximum certificate retrieval time and maximum decision time, all in
milliseconds (0 disables the delay), or by a YAML file passed with --config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyEnv(cmd.Flags()); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		cfg, err := resolveRunConfig(args, configPath)
		if err != nil {
			return err
		}
		cfg.Seed = seed
		cfg.RunID = uuid.New().String()

		var stdout io.Writer
		if printSummary {
			stdout = cmd.OutOrStdout()
		}
		_, err = runSimulation(cmd.Context(), cfg, outputPath, eventsDBPath, stdout)
		return err
	},
}

// runSimulation opens the configured sinks, runs one simulation and closes
// the sinks again. A non-nil summary writer receives the YAML result.
func runSimulation(ctx context.Context, cfg sim.Config, output, eventsDB string, summary io.Writer) (res *sim.Result, err error) {
	var sinks []trace.Sink
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			if cerr := c.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}()

	if output != "" {
		text, err := trace.CreateTextFile(output)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, text)
		closers = append(closers, text)
	}
	if eventsDB != "" {
		store, err := trace.OpenSQLiteSink(eventsDB, cfg.RunID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
		closers = append(closers, store)
	}
	var recorder *trace.Recorder
	if summary != nil {
		recorder = trace.NewRecorder()
		sinks = append(sinks, recorder)
	}

	s, err := sim.NewSimulator(cfg, trace.NewSequencer(sinks...))
	if err != nil {
		return nil, err
	}
	res, err = s.Run(ctx)
	if err != nil {
		return nil, err
	}
	if summary != nil {
		res.EventSummary = trace.Summarize(recorder.Records())
		if err := res.WriteYAML(summary); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Execute runs the CLI root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for every random delay (env HALLSIM_SEED)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic) (env HALLSIM_LOG)")
	runCmd.Flags().StringVar(&outputPath, "output", "hall.out", "Event log file, empty to disable (env HALLSIM_OUTPUT)")
	runCmd.Flags().StringVar(&eventsDBPath, "events-db", "", "SQLite event store, empty to disable (env HALLSIM_EVENTS_DB)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration, instead of the 5 positional values")
	runCmd.Flags().BoolVar(&printSummary, "summary", false, "Print a YAML result report on stdout")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
