package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hirejourne/prep-agent/internal/analysis"
	"github.com/hirejourne/prep-agent/internal/config"
	"github.com/hirejourne/prep-agent/internal/db"
	"github.com/hirejourne/prep-agent/internal/enrichment"
	"github.com/hirejourne/prep-agent/internal/llm"
	"github.com/hirejourne/prep-agent/internal/pipeline"
	"github.com/hirejourne/prep-agent/internal/report"
	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/storage"
)

// app bundles the wired collaborators the commands share.
type app struct {
	cfg      *config.Config
	database *db.DB
	objects  *storage.Client
	analyzer *analysis.Analyzer
	enricher *enrichment.Enricher
	profiles *research.ProxycurlClient
	orgs     *research.CrunchbaseClient
	pipeline *pipeline.Pipeline
}

// buildApp reads configuration from the environment and connects every
// adapter the pipeline needs. The caller owns Close.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	objects, err := storage.NewClient(ctx, cfg.Storage)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	llmClient, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, os.Getenv("OPENAI_MODEL"))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	analyzer := analysis.New(llmClient, database)
	orgs := research.NewCrunchbaseClient(cfg.CrunchbaseAPIKey, cfg.ExternalTimeout)
	profiles := research.NewProxycurlClient(cfg.ProxycurlAPIKey, cfg.ExternalTimeout)
	enricher := enrichment.New(orgs, analyzer)
	renderer := report.NewChromeRenderer()

	return &app{
		cfg:      cfg,
		database: database,
		objects:  objects,
		analyzer: analyzer,
		enricher: enricher,
		profiles: profiles,
		orgs:     orgs,
		pipeline: pipeline.New(database, objects, analyzer, enricher, profiles, renderer, cfg.ExternalTimeout),
	}, nil
}

func (a *app) Close() {
	a.database.Close()
}
