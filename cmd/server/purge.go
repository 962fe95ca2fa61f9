package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sayabantu/internal/services"
	"sayabantu/internal/store"
)

var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete expired password reset tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, db := fromContext(ctx)

		reset := services.NewPasswordResetService(db, store.New(), services.NewEmailService(cfg.SMTP), cfg)
		n, err := reset.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired reset tokens\n", n)
		return nil
	},
}
