package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sortbench/config"
	"sortbench/history"
	"sortbench/report"
	"sortbench/sweep"
	"sortbench/telemetry"
)

// Overridden in tests.
var (
	newGenerator = func(seed uint64) sweep.Generator { return sweep.NewRandomGenerator(seed) }
	runnerOpts   []sweep.Option
)

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sortbench [bubble-step] [bubble-max] [merge-step] [merge-max]",
		Short: "Time bubble sort and merge sort over growing input sizes",
		Long: `Sorts shuffled inputs of size 0, step, 2*step ... up to max with each
algorithm, prints the elapsed milliseconds per size and writes
bubble_sort_data.txt and merge_sort_data.txt as "<size>,<ms>" lines.

Defaults: 100 1000 1000 10000.`,
		Example: `  sortbench
  sortbench 25 1000 500 30000 --summary results.md`,
		Args:          cobra.MaximumNArgs(4),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, v, cfgFile, args)
			if err != nil {
				return err
			}
			return runBenchmark(cmd, cfg, logger)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sortbench.yaml)")
	config.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(newHistoryCmd(v, &cfgFile), newSummarizeCmd(v, &cfgFile))
	return cmd
}

// setup resolves the configuration and installs the logger. Logs go to
// stderr; stdout carries only the progress lines.
func setup(cmd *cobra.Command, v *viper.Viper, cfgFile string, args []string) (config.Config, *slog.Logger, error) {
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, nil, err
	}
	if err := config.ApplyArgs(v, args); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := telemetry.InitLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	return cfg, logger, nil
}

func runBenchmark(cmd *cobra.Command, cfg config.Config, logger *slog.Logger) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info("benchmark starting",
		"bubble_step", cfg.Sweep.BubbleStep, "bubble_max", cfg.Sweep.BubbleMax,
		"merge_step", cfg.Sweep.MergeStep, "merge_max", cfg.Sweep.MergeMax,
		"seed", seed)

	metrics := telemetry.NewMetrics()
	opts := []sweep.Option{
		sweep.WithGC(cfg.GC),
		sweep.WithObserver(metrics.Observe),
		sweep.WithLogger(logger),
	}
	runner := sweep.NewRunner(cmd.OutOrStdout(), newGenerator(seed), append(opts, runnerOpts...)...)

	results, err := runner.Run(cmd.Context(), sweep.Plans(cfg.Sweep))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", cfg.OutDir)
	}
	paths, err := report.WriteResults(cfg.OutDir, results)
	if err != nil {
		return errors.Wrap(err, "write data files")
	}
	logger.Info("data files written", "paths", paths)

	if cfg.Summary != "" {
		if err := report.WriteSummary(cfg.Summary, results, report.NewMeta(seed)); err != nil {
			return err
		}
		logger.Info("summary written", "path", cfg.Summary)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		logger.Info("metrics written", "path", cfg.MetricsFile)
	}

	if cfg.HistoryEnabled() {
		run := history.Run{
			Timestamp: time.Now(),
			Seed:      seed,
			Config:    cfg.Sweep,
			Results:   results,
		}
		if err := archive(cfg.History, run); err != nil {
			return err
		}
		logger.Info("run archived", "backend", cfg.History.Backend)
	}
	return nil
}

func archive(hc history.Config, run history.Run) (err error) {
	store, err := history.Open(hc)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close history")
		}
	}()
	return store.Save(run)
}
