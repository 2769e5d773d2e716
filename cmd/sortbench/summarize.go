package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sortbench/report"
	"sortbench/sweep"
)

const defaultSummaryFile = "summary.md"

func newSummarizeCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Build a Markdown summary from existing data files",
		Long: `Reads bubble_sort_data.txt and merge_sort_data.txt from --out-dir and
writes a Markdown summary to --summary, or to summary.md in --out-dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, v, *cfgFile, nil)
			if err != nil {
				return err
			}

			results, err := report.ReadResults(cfg.OutDir, []sweep.Algorithm{sweep.BubbleSort, sweep.MergeSort})
			if err != nil {
				return err
			}

			path := cfg.Summary
			if path == "" {
				path = filepath.Join(cfg.OutDir, defaultSummaryFile)
			}
			if err := report.WriteSummary(path, results, report.NewMeta(0)); err != nil {
				return err
			}

			logger.Debug("summary written", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Summary written to %s\n", path)
			return nil
		},
	}
}
