package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"themesync/internal/check"
)

func newCheckCommand(cmdCtx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit theme coverage without downloading anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			checker := &check.Checker{
				Library:       cmdCtx.plexClient(cfg),
				Mapper:        cmdCtx.mapper(cfg),
				ThemeFileName: cfg.Drive.ThemeFile,
			}
			report, err := checker.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"With theme", fmt.Sprint(len(report.WithTheme))},
				{"File present, not recognized", fmt.Sprint(len(report.Unrecognized))},
				{"Missing theme file", fmt.Sprint(len(report.MissingFile))},
				{"Total", fmt.Sprint(report.Total())},
			}
			fmt.Fprintln(out, renderTable([]string{"Category", "Movies"}, rows, []columnAlignment{alignLeft, alignRight}))

			if len(report.Unrecognized) > 0 {
				fmt.Fprintln(out, "\nOn disk but not recognized by Plex (a sync run will trigger refreshes):")
				fmt.Fprintln(out, renderTable([]string{"Title", "Year", "Theme Path"}, reportRows(report.Unrecognized), nil))
			}
			if verbose && len(report.MissingFile) > 0 {
				fmt.Fprintln(out, "\nMissing theme file:")
				fmt.Fprintln(out, renderTable([]string{"Title", "Year", "Theme Path"}, reportRows(report.MissingFile), nil))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every movie that is missing a theme file")
	return cmd
}

func reportRows(rows []check.Row) [][]string {
	rendered := make([][]string, 0, len(rows))
	for _, row := range rows {
		year := ""
		if row.Year > 0 {
			year = fmt.Sprint(row.Year)
		}
		rendered = append(rendered, []string{row.Title, year, row.ThemePath})
	}
	return rendered
}
