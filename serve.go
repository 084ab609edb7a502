package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive HTTP server",
	Long: `Starts the planning worker and exposes the scene, the planner settings
and the rendered frame over HTTP. Results are pushed to websocket viewers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
	}
}

func runServe(cmd *cobra.Command) error {
	settings, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		settings.Server.Addr, _ = cmd.Flags().GetString("addr")
	}

	metrics := NewMetrics()
	session, err := NewSession(settings.Scene,
		WithLogger(logger),
		WithMetrics(metrics),
		WithCanvasSize(settings.CanvasSize),
		WithPlannerSettings(settings.Planner),
	)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.Close()

	srv := &http.Server{
		Addr:              settings.Server.Addr,
		Handler:           NewHandler(session, metrics, logger.With("component", "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"algorithm", settings.Planner.Algorithm,
			"obstacles", len(settings.Scene.Obstacles),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		logger.Info("server stopped")
		return nil
	}
}
