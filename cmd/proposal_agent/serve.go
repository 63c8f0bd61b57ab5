package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-agent/internal/config"
	"github.com/jonathan/proposal-agent/internal/db"
	"github.com/jonathan/proposal-agent/internal/pipeline"
	"github.com/jonathan/proposal-agent/internal/server"
	"github.com/jonathan/proposal-agent/internal/slides"
)

var (
	servePort    int
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for managing projects and generating proposals.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL, err := resolveDatabaseURL("")
	if err != nil {
		return err
	}
	apiKey, err := resolveAPIKey("")
	if err != nil {
		return err
	}

	logger := newLogger(serveVerbose)
	defaults := config.Defaults()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return err
	}

	client, err := newLLMClient(ctx, apiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		database.Close()
		return err
	}

	generator := &pipeline.Generator{
		LLM:    client,
		Store:  database,
		Runs:   database,
		Logger: logger,
		Options: pipeline.Options{
			MinJobTextLen: defaults.MinJobTextLen,
			Retry:         retryPolicy(defaults),
		},
	}

	// Rendering is available only when service account credentials are
	// configured; otherwise proposals carry the deck spec without a
	// presentation.
	if credPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credPath != "" {
		credJSON, err := os.ReadFile(credPath)
		if err != nil {
			return fmt.Errorf("failed to read credentials file %s: %w", credPath, err)
		}
		renderer, err := slides.NewGoogleSlidesRenderer(ctx, credJSON)
		if err != nil {
			return err
		}
		exporter, err := slides.NewDriveExporter(ctx, credJSON)
		if err != nil {
			return err
		}
		generator.Renderer = renderer
		generator.Exporter = exporter
	}

	srvCfg := server.Config{
		Port:        servePort,
		CallsPerMin: defaults.CallsPerMin,
	}
	if os.Getenv("JWT_SECRET") != "" {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("invalid JWT configuration: %w", err)
		}
		srvCfg.JWTSecret = jwtCfg.Secret
		srvCfg.JWTExpirationHours = jwtCfg.ExpirationHours
	}

	srv, err := server.New(srvCfg, database, generator, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	defer func() {
		_ = client.Close()
		database.Close()
	}()

	return srv.Start()
}
