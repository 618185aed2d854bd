package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/hirejourne/prep-agent/internal/config"
	"github.com/hirejourne/prep-agent/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for the interview prep pipeline.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.objects.VerifyWithRetry(ctx); err != nil {
		return fmt.Errorf("storage verification failed: %w", err)
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	port := app.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	srv := server.New(server.Config{Port: port}, server.Deps{
		Store:     app.database,
		Processor: app.pipeline,
		Analyzer:  app.analyzer,
		Enricher:  app.enricher,
		Profiles:  app.profiles,
		Orgs:      app.orgs,
		JWT:       server.NewJWTService(jwtCfg),
	})

	log.Printf("starting server on port %d", port)
	return srv.Start()
}
