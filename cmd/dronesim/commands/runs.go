package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eneri4/exploration-drones/internal/persistence"
	"github.com/eneri4/exploration-drones/internal/printer"
)

var (
	runsDB    string
	runsLimit int
	runsID    string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `List run summaries recorded with "dronesim run --db".

Examples:
  dronesim runs --db runs.db
  dronesim runs --db runs.db --id 3f1c...`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "runs.db", "SQLite results file")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list")
	runsCmd.Flags().StringVar(&runsID, "id", "", "Show per-drone counters for one run")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := persistence.Open(runsDB)
	if err != nil {
		return printer.Error("cannot open results store", err.Error(), nil)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if runsID != "" {
		run, err := db.GetRun(runsID)
		if err != nil {
			return printer.Error("run not found", err.Error(), []string{"List runs with: dronesim runs --db " + runsDB})
		}
		counters, err := db.RunCounters(runsID)
		if err != nil {
			return printer.Error("cannot read counters", err.Error(), nil)
		}
		printer.Heading("Run %s: %s/%s, %d drones, %s\n", run.ID, run.Mode, run.Policy, run.Drones, run.Reason)
		fmt.Fprintln(tw, "drone\ttransmits\treceives")
		for _, c := range counters {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, humanize.Comma(int64(c.Transmits)), humanize.Comma(int64(c.Receives)))
		}
		return tw.Flush()
	}

	runs, err := db.RecentRuns(runsLimit)
	if err != nil {
		return printer.Error("cannot list runs", err.Error(), nil)
	}
	if len(runs) == 0 {
		printer.Info("No runs recorded in %s\n", runsDB)
		return nil
	}

	fmt.Fprintln(tw, "id\twhen\tmode\tpolicy\tdrones\tgrid\trounds\tcoverage\texchanges\treason")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%dx%d\t%s\t%.0f%%\t%s\t%s\n",
			r.ID, humanize.Time(r.CreatedAt), r.Mode, r.Policy, r.Drones, r.Width, r.Height,
			humanize.Comma(int64(r.Rounds)), 100*r.Coverage(), humanize.Comma(int64(r.Exchanges)), r.Reason)
	}
	return tw.Flush()
}
