package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				_, db := fromContext(ctx)
				return db.Migrate(ctx)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				_, db := fromContext(ctx)
				if err := db.Rollback(ctx); err != nil {
					return err
				}
				log.FromContext(ctx).Info("rolled back one migration")
				return nil
			},
		},
	)
}
