package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/toughcanvas/internal/browser"
	"github.com/aleister1102/toughcanvas/internal/datastore"
	"github.com/aleister1102/toughcanvas/internal/logger"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/aleister1102/toughcanvas/internal/resources"
	"github.com/aleister1102/toughcanvas/internal/runner"
	"github.com/aleister1102/toughcanvas/internal/story"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		stories   []string
		headed    bool
		noHistory bool
		from      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tough canvas pages in a browser",
		Long: `Run loads every active page (or the ones named with --story), waits for the
document to be complete and holds a measured interaction window while the
page animates. Each page result is stored in the run history as soon as it
is known, and the whole run is written to a Parquet file at the end.
The exit code is 1 when any page failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(stories) > 0 {
				a.cfg.RunnerConfig.StoryFilter = stories
			}
			if headed {
				a.cfg.BrowserConfig.Headless = false
			}

			summary, err := executeRun(cmd.Context(), a, from, !noHistory)
			if summary != nil {
				printRunSummary(cmd, summary)
			}
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d pages failed: %w", summary.Failed, summary.Total, errReported)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&stories, "story", "s", nil, "Run only the named pages (repeatable)")
	cmd.Flags().BoolVar(&headed, "headed", false, "Show the browser window")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not store results")
	cmd.Flags().StringVar(&from, "from", "", "Read the catalog from a YAML/JSON file instead of the built-in one")

	return cmd
}

func executeRun(ctx context.Context, a *app, catalogPath string, store bool) (*models.RunSummary, error) {
	cfg := a.cfg
	runID := uuid.NewString()

	log, err := logger.NewWithRunID(cfg.LogConfig, runID)
	if err != nil {
		return nil, fmt.Errorf("initializing run logger: %w", err)
	}
	log = log.With().Str("run_id", runID).Logger()

	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}

	resolver, err := browser.NewFixtureResolver(cfg.BrowserConfig.FixtureBaseDir)
	if err != nil {
		return nil, err
	}

	opts := []runner.Option{
		runner.WithRunIDGenerator(func() string { return runID }),
		runner.WithSampler(resources.NewSampler(250*time.Millisecond, resources.DefaultThresholds(), log), resources.DefaultThresholds()),
	}

	var history *datastore.HistoryDB
	if store {
		history, err = datastore.NewHistoryDB(cfg.StorageConfig.SQLiteDBPath, log)
		if err != nil {
			return nil, err
		}
		defer history.Close()
		opts = append(opts, runner.WithRecorder(history))
	}

	manager := browser.NewManager(cfg.BrowserConfig, log)
	if err := manager.Start(ctx); err != nil {
		return nil, err
	}
	defer manager.Stop()

	pages := browser.NewPageRunner(manager, story.Options{
		NavigationTimeout: cfg.RunnerConfig.NavigationTimeout(),
		ReadyCondition:    story.ReadyStateComplete,
		URLResolver:       resolver.Resolve,
	}, log)
	defer func() {
		if err := pages.Close(); err != nil {
			log.Debug().Err(err).Msg("Failed to close browser tab")
		}
	}()

	opts = append(opts, runner.WithFrameSource(func() (int, time.Duration, bool) {
		w, ok := pages.LastWindow()
		return w.Frames, w.Measured, ok
	}))

	summary, runErr := runner.New(pages, cfg.RunnerConfig, log, opts...).Run(ctx, cat)
	if summary == nil || history == nil {
		return summary, runErr
	}

	// interrupted runs are still completed in storage
	if err := finishRun(context.WithoutCancel(ctx), a, history, summary, log); err != nil {
		log.Error().Err(err).Msg("Failed to store run results")
		if runErr == nil {
			runErr = err
		}
	}
	return summary, runErr
}

// finishRun writes the run's Parquet file and closes its history record
func finishRun(ctx context.Context, a *app, history *datastore.HistoryDB, summary *models.RunSummary, log zerolog.Logger) error {
	writer, err := datastore.NewParquetWriter(a.cfg.StorageConfig, log)
	if err != nil {
		return err
	}

	written, err := writer.Write(ctx, summary.RunID, summary.Results)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to write results file; page results remain in history")
	} else {
		summary.ResultsPath = written.FilePath
	}

	if updateErr := history.UpdateRunCompletion(ctx, summary); updateErr != nil {
		return updateErr
	}
	return err
}

func printRunSummary(cmd *cobra.Command, summary *models.RunSummary) {
	printPageResults(cmd, summary.Results)

	fmt.Fprintf(cmd.OutOrStdout(), "\nrun %s: %s, %d passed, %d failed, %d skipped in %s\n",
		summary.RunID, summary.Status, summary.Passed, summary.Failed, summary.Skipped,
		summary.Duration().Round(time.Second))
	if summary.ResultsPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "results: %s\n", summary.ResultsPath)
	}
}

func pageResultRows(results []models.PageResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		fps := ""
		if r.Frames > 0 {
			fps = fmt.Sprintf("%.1f", r.FPS())
		}
		rows = append(rows, []string{
			r.Page,
			string(r.Status),
			r.Duration.Round(time.Millisecond).String(),
			fps,
			r.ErrorKind,
		})
	}
	return rows
}

var pageResultHeaders = []string{"page", "status", "duration", "fps", "error"}

func printPageResults(cmd *cobra.Command, results []models.PageResult) {
	_ = printTable(cmd.OutOrStdout(), pageResultHeaders, pageResultRows(results))
}
