package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"themesync/internal/config"
)

func newResetCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard all persisted progress and the cooldown",
		Long: "Reset deletes every per-movie progress record and any stored " +
			"rate-limit cooldown. Theme files already on disk are not touched; " +
			"the next sync rediscovers them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withLock(func(cfg *config.Config) error {
				store, err := cmdCtx.openStore(cfg)
				if err != nil {
					return err
				}
				defer store.Close()

				removed, err := store.Reset(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d progress records\n", removed)
				return nil
			})
		},
	}
}
