package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sortbench/history"
	"sortbench/telemetry"
)

func newHistoryCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	var compare bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs, or compare the latest two",
		Long: `Reads the runs archived by earlier invocations with --history-backend set.
With --compare, the newest run is compared size by size against the one
before it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd, v, *cfgFile, nil)
			if err != nil {
				return err
			}
			if !cfg.HistoryEnabled() {
				return errors.New("history is disabled; set --history-backend")
			}

			store, err := history.Open(cfg.History)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					telemetry.LogError("close history", err, "backend", cfg.History.Backend)
				}
			}()

			runs, err := store.LoadAll()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			if compare {
				if len(runs) < 2 {
					fmt.Fprintln(out, "Need at least two runs to compare.")
					return nil
				}
				printComparison(out, history.Compare(runs[len(runs)-2], runs[len(runs)-1]))
				return nil
			}
			printRuns(out, runs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&compare, "compare", false, "Compare the latest run with the previous one")
	return cmd
}

func printRuns(out io.Writer, runs []history.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tSEED\tBUBBLE STEP/MAX\tMERGE STEP/MAX\tMEASUREMENTS\tTOTAL MS")
	for _, run := range runs {
		var count int
		var total int64
		for _, res := range run.Results {
			count += len(res.Measurements)
			for _, m := range res.Measurements {
				total += m.Millis
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d/%d\t%d/%d\t%d\t%d\n",
			run.Timestamp.Format("2006-01-02 15:04:05"), run.Seed,
			run.Config.BubbleStep, run.Config.BubbleMax,
			run.Config.MergeStep, run.Config.MergeMax,
			count, total)
	}
	w.Flush()
}

func printComparison(out io.Writer, comps []history.Comparison) {
	if len(comps) == 0 {
		fmt.Fprintln(out, "No sizes in common between the last two runs.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSIZE\tPREV MS\tCURR MS\tDIFF %")
	for _, c := range comps {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%+.2f%%\n", c.Algorithm, c.Size, c.PrevMillis, c.CurrMillis, c.Diff)
	}
	w.Flush()
}
