package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savaki/slack-relay/pkg/app"
	"github.com/savaki/slack-relay/pkg/config"
	"github.com/savaki/slack-relay/pkg/handler"
	"github.com/savaki/slack-relay/pkg/worker"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

const shutdownTimeout = 30 * time.Second

func main() {
	root := &cobra.Command{
		Use:   "slack-relay",
		Short: "Slack webhook relay",
		Long:  "slack-relay answers Slack mentions, DMs and keyword messages with product lookups and AWS queries.",
	}

	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Slack events endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides PORT)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("slack-relay", version)
		},
	}
}

func runServe(port int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port > 0 {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := app.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}

	log.Printf("Starting slack-relay %s (env %s, bot token %s)", version, cfg.Environment, cfg.MaskedBotToken())
	if len(cfg.AllowedChannels) > 0 {
		log.Printf("Allowed channels: %v", cfg.AllowedChannels)
	}
	if len(cfg.MonitorChannels) > 0 {
		log.Printf("Monitored channels: %v", cfg.MonitorChannels)
	}

	// workers outlive individual requests and stop with the process
	pool := worker.New(cfg.Workers, cfg.QueueSize)
	pool.Start(context.Background())

	eventHandler := app.NewEventHandler(cfg, awsCfg)
	router := handler.NewRouter(cfg.SlackSigningSecret, handler.NewPoolScheduler(pool, eventHandler))

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: http shutdown: %v", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: %d queued events not processed: %v", pool.Pending(), err)
	}

	log.Printf("Stopped")
	return nil
}
