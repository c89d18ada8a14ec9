package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aleister1102/toughcanvas/internal/datastore"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit    int
		failures bool
		format   string
		runID    string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent benchmark runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseOutputFormat(format)
			if err != nil {
				return err
			}

			db, err := datastore.NewHistoryDB(a.cfg.StorageConfig.SQLiteDBPath, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if runID != "" {
				return showRun(cmd, a, db, runID, out)
			}

			if failures {
				counts, err := db.PageFailureCounts(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(counts))
				for _, c := range counts {
					rows = append(rows, []string{c.Page, strconv.Itoa(c.Failures), strconv.Itoa(c.Runs)})
				}
				return printOutput(cmd.OutOrStdout(), out, counts, []string{"page", "failures", "runs"}, rows)
			}

			runs, err := db.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				duration := ""
				if r.FinishedAt.Valid {
					duration = r.FinishedAt.Time.Sub(r.StartedAt).Round(time.Second).String()
				}
				rows = append(rows, []string{
					r.RunID,
					r.StartedAt.Local().Format(time.DateTime),
					r.Status,
					strconv.Itoa(r.Passed),
					strconv.Itoa(r.Failed),
					strconv.Itoa(r.Skipped),
					duration,
				})
			}
			return printOutput(cmd.OutOrStdout(), out, runs, []string{"run id", "started", "status", "passed", "failed", "skipped", "duration"}, rows)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().BoolVar(&failures, "failures", false, "Show per-page failure counts instead of runs")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	cmd.Flags().StringVar(&runID, "run", "", "Show the page results of one run")

	return cmd
}

// showRun prints one run's page results, read from its results file when it
// exists and from the history database otherwise
func showRun(cmd *cobra.Command, a *app, db *datastore.HistoryDB, runID string, out outputFormat) error {
	ctx := cmd.Context()

	entry, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	reader := datastore.NewParquetReader(a.cfg.StorageConfig, a.logger)
	var results []models.PageResult
	if entry.ResultsPath.Valid {
		results, err = reader.ReadFile(entry.ResultsPath.String)
	} else {
		results, err = reader.ReadRun(runID)
	}
	if datastore.IsNotFound(err) {
		a.logger.Debug().Str("run_id", runID).Msg("No results file, using history rows")
		results, err = db.PageResults(ctx, runID)
	}
	if err != nil {
		return err
	}

	if out != outputTable {
		return printOutput(cmd.OutOrStdout(), out, results, nil, nil)
	}

	if err := printTable(cmd.OutOrStdout(), pageResultHeaders, pageResultRows(results)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nrun %s: %s, %d passed, %d failed, %d skipped of %d\n",
		entry.RunID, entry.Status, entry.Passed, entry.Failed, entry.Skipped, entry.NumPages)
	return nil
}
