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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-winnow/api"
	"github.com/gcbaptista/go-winnow/internal/engine"
	"github.com/gcbaptista/go-winnow/internal/pgstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing document registration, fingerprinting and comparison endpoints.",
	RunE:  runServe,
}

var (
	servePort        string
	serveDataDir     string
	serveDatabaseURL string
)

// maxRequestBodySize bounds uploaded document batches.
const maxRequestBodySize = 32 << 20

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Directory for snapshots (default ./winnow_data)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "database-url", "", "PostgreSQL URL for the fingerprint cache (optional)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = serveDataDir
	}
	if cmd.Flags().Changed("database-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := engine.Options{
		DataDir:    cfg.DataDir,
		Settings:   cfg.Fingerprint,
		MaxWorkers: cfg.MaxWorkers,
		MaxJobs:    cfg.MaxJobs,
	}
	if cfg.DatabaseURL != "" {
		fingerprints, err := connectFingerprintStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer fingerprints.Close()
		opts.Backend = fingerprints
	}

	log.Printf("Using data directory: %s", cfg.DataDir)
	eng, err := engine.NewEngine(opts)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			log.Printf("Warning: failed to persist engine state: %v", err)
		}
	}()

	router := gin.Default()
	router.Use(api.RequestIDMiddleware(), api.CORSMiddleware(), api.RequestSizeLimitMiddleware(maxRequestBodySize))
	api.SetupRoutes(router, eng)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func connectFingerprintStore(ctx context.Context, databaseURL string) (*pgstore.Store, error) {
	fingerprints, err := pgstore.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := fingerprints.EnsureSchema(ctx); err != nil {
		fingerprints.Close()
		return nil, err
	}
	log.Printf("Info: Caching fingerprints in PostgreSQL")
	return fingerprints, nil
}
