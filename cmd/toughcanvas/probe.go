package main

import (
	"fmt"
	"strconv"

	"github.com/aleister1102/toughcanvas/internal/browser"
	"github.com/aleister1102/toughcanvas/internal/catalog"
	"github.com/aleister1102/toughcanvas/internal/probe"
	"github.com/spf13/cobra"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that every page is still reachable",
		Long: `Probe checks remote pages over HTTP and local fixtures on disk so that link
rot is found before a benchmark run. The exit code is 1 when any page is
unreachable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseOutputFormat(format)
			if err != nil {
				return err
			}

			cat, err := catalog.BuildCatalog()
			if err != nil {
				return err
			}
			pages := cat.Pages()
			if all {
				pages = cat.AllPages()
			}

			resolver, err := browser.NewFixtureResolver(a.cfg.BrowserConfig.FixtureBaseDir)
			if err != nil {
				return err
			}

			checker := probe.NewChecker(probe.NewHTTPXProber(a.cfg.ProbeConfig, a.logger), resolver, a.logger)
			results, err := checker.Check(cmd.Context(), pages)
			if err != nil {
				return err
			}

			broken := 0
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := ""
				if r.StatusCode > 0 {
					status = strconv.Itoa(r.StatusCode)
				}
				if !r.Reachable {
					broken++
				}
				rows = append(rows, []string{r.Page, strconv.FormatBool(r.Reachable), status, truncate(r.URL, 70), truncate(r.Error, 40)})
			}

			if err := printOutput(cmd.OutOrStdout(), out, results, []string{"page", "reachable", "status", "url", "error"}, rows); err != nil {
				return err
			}
			if broken > 0 {
				return fmt.Errorf("%d of %d pages unreachable: %w", broken, len(results), errReported)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	cmd.Flags().BoolVar(&all, "all", false, "Include disabled pages")

	return cmd
}
