package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"sayabantu/internal/config"
	"sayabantu/internal/database"
	"sayabantu/internal/logging"
)

// Version is set via ldflags when building.
var Version = ""

var rootCmd = &cobra.Command{
	Use:                "sayabantu",
	Short:              "SayaBantu backend API",
	SilenceUsage:       true,
	Args:               cobra.NoArgs,
	PersistentPreRunE:  openDB,
	PersistentPostRunE: closeDB,
	// Without a subcommand the binary starts the server.
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(
		serveCmd,
		migrateCmd,
		purgeTokensCmd,
	)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

type contextKey struct{ name string }

var (
	configKey = &contextKey{"config"}
	dbKey     = &contextKey{"db"}
)

// openDB connects to the configured database and stores it in the command
// context. closeDB releases it.
func openDB(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := ctx.Value(configKey).(*config.Config)

	db, err := database.NewDatabase(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	cmd.SetContext(context.WithValue(ctx, dbKey, db))
	return nil
}

func closeDB(cmd *cobra.Command, _ []string) error {
	if db, ok := cmd.Context().Value(dbKey).(*database.Database); ok && db != nil {
		if err := db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}

func fromContext(ctx context.Context) (*config.Config, *database.Database) {
	cfg, _ := ctx.Value(configKey).(*config.Config)
	db, _ := ctx.Value(dbKey).(*database.Database)
	return cfg, db
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	logger, f, err := logging.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal("open log file", "err", err)
	}
	if f != nil {
		defer f.Close() //nolint:errcheck
	}
	log.SetDefault(logger)

	ctx := context.WithValue(context.Background(), configKey, cfg)
	ctx = log.WithContext(ctx, logger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if f != nil {
			f.Close() //nolint:errcheck
		}
		os.Exit(1)
	}
}
