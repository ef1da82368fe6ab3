package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"themesync/internal/progress"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show persisted sync progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := cmdCtx.openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(stats))
			total := 0
			for _, status := range progress.AllStatuses() {
				count, ok := stats[status]
				if !ok {
					continue
				}
				total += count
				rows = append(rows, []string{string(status), fmt.Sprint(count)})
			}
			rows = append(rows, []string{"total", fmt.Sprint(total)})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Status", "Items"}, rows, []columnAlignment{alignLeft, alignRight}))

			resumeAt, ok, err := store.Cooldown(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				if remaining := time.Until(resumeAt); remaining > 0 {
					fmt.Fprintf(out, "Rate-limit cooldown active: resumes %s (%s remaining)\n",
						resumeAt.Local().Format(time.RFC1123), remaining.Round(time.Second))
				} else {
					fmt.Fprintf(out, "Rate-limit cooldown expired at %s; the next sync clears it.\n",
						resumeAt.Local().Format(time.RFC1123))
				}
			}
			fmt.Fprintf(out, "Store: %s\n", store.Path())
			return nil
		},
	}
}
