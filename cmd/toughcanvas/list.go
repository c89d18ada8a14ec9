package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		format string
		all    bool
		from   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the pages in the tough canvas catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseOutputFormat(format)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(from)
			if err != nil {
				return err
			}

			if out != outputTable {
				data, err := cat.Export(string(out), all)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			pages := cat.Pages()
			if all {
				pages = cat.AllPages()
			}

			rows := make([][]string, 0, len(pages))
			for _, p := range pages {
				kind := "remote"
				if p.IsLocal() {
					kind = "local"
				}
				rows = append(rows, []string{p.Name, kind, strconv.FormatBool(p.Enabled), truncate(p.URL, 80), p.DisabledReason})
			}
			return printTable(cmd.OutOrStdout(), []string{"name", "kind", "enabled", "url", "disabled reason"}, rows)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	cmd.Flags().BoolVar(&all, "all", false, "Include disabled pages")
	cmd.Flags().StringVar(&from, "from", "", "Read the catalog from a YAML/JSON file instead of the built-in one")

	return cmd
}
