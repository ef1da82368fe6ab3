package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"themesync/internal/config"
	"themesync/internal/notifications"
	"themesync/internal/themesync"
)

func newSyncCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one full synchronization pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withLock(func(cfg *config.Config) error {
				logger, err := cmdCtx.logger()
				if err != nil {
					return err
				}

				store, err := cmdCtx.openStore(cfg)
				if err != nil {
					return err
				}
				defer store.Close()

				driveClient, err := cmdCtx.driveClient(cfg)
				if err != nil {
					return err
				}

				orch := &themesync.Orchestrator{
					Library:       cmdCtx.plexClient(cfg),
					Drive:         driveClient,
					Store:         store,
					Mapper:        cmdCtx.mapper(cfg),
					Notifier:      notifications.NewService(cfg),
					Logger:        logger,
					Threshold:     cfg.Matching.FuzzyThreshold,
					Cooldown:      cfg.RetryCooldown(),
					ThemeFileName: cfg.Drive.ThemeFile,
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				summary, err := orch.Run(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Matched %d, downloaded %d, skipped %d, deferred %d, refreshed %d\n",
					summary.Matched, summary.Downloaded, summary.Skipped, summary.Deferred, summary.Refreshed)
				if summary.Suspended {
					fmt.Fprintln(out, "Run suspended by a rate limit; run `themesync sync` again to resume after the cooldown.")
				}
				return nil
			})
		},
	}
}
