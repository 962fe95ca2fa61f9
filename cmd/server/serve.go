package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sayabantu/internal/handlers"
	"sayabantu/internal/services"
	"sayabantu/internal/store"
	"sayabantu/internal/utils"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, db := fromContext(ctx)
	logger := log.FromContext(ctx)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	st := store.New()
	mailer := services.NewEmailService(cfg.SMTP)
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP is not configured; reset emails will not be sent")
	}
	reset := services.NewPasswordResetService(db, st, mailer, cfg)

	uploads, err := handlers.NewUploader(cfg.UploadDir)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.Deps{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Store:   st,
		JWT:     utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration),
		Reset:   reset,
		Uploads: uploads,
	})

	scheduler := services.NewScheduler(ctx)
	if err := scheduler.AddTokenReaper(ctx, cfg.Reset.PurgeSchedule, reset); err != nil {
		return fmt.Errorf("schedule token reaper: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		scheduler.Shutdown()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
