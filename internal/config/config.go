// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// StorageConfig holds object-storage connection settings.
type StorageConfig struct {
	Endpoint      string // S3-compatible endpoint URL; empty means AWS default resolution
	Region        string
	AccessKey     string
	SecretKey     string
	ResumesBucket string
	ReportsBucket string
}

// Config represents the full service configuration, read from the process
// environment. API keys are never hardcoded.
type Config struct {
	DatabaseURL string
	Port        int

	OpenAIAPIKey     string
	ProxycurlAPIKey  string
	CrunchbaseAPIKey string

	Storage StorageConfig

	// ExternalTimeout bounds each outbound adapter call.
	ExternalTimeout time.Duration
}

// Load reads configuration from environment variables.
// DATABASE_URL and OPENAI_API_KEY are required; the research API keys are
// optional and their absence degrades enrichment to fallback behavior.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Port:             8080,
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		ProxycurlAPIKey:  os.Getenv("PROXYCURL_API_KEY"),
		CrunchbaseAPIKey: os.Getenv("CRUNCHBASE_API_KEY"),
		Storage: StorageConfig{
			Endpoint:      os.Getenv("STORAGE_ENDPOINT"),
			Region:        getEnvDefault("STORAGE_REGION", "us-east-1"),
			AccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
			ResumesBucket: getEnvDefault("RESUMES_BUCKET", "resumes"),
			ReportsBucket: getEnvDefault("REPORTS_BUCKET", "reports"),
		},
		ExternalTimeout: 60 * time.Second,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if timeoutStr := os.Getenv("EXTERNAL_TIMEOUT_SECONDS"); timeoutStr != "" {
		secs, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid EXTERNAL_TIMEOUT_SECONDS: %v", err)
		}
		cfg.ExternalTimeout = time.Duration(secs) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.Storage.ResumesBucket == "" || c.Storage.ReportsBucket == "" {
		return fmt.Errorf("storage bucket names cannot be empty")
	}
	if c.ExternalTimeout < time.Second {
		return fmt.Errorf("external timeout must be at least 1s, got: %s", c.ExternalTimeout)
	}
	return nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
