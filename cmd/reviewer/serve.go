package main

import (
	"fmt"
	"os"

	"github.com/jonathan/text-reviewer/internal/config"
	"github.com/jonathan/text-reviewer/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for submitting text reviews and reading stored assessments.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigFile(serveConfigFile)
	if err != nil {
		return err
	}

	// Flags and environment fill anything the config file leaves unset.
	merged := cfg.MergeWithDefaults(config.Config{
		Port:        servePort,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServiceKey:  os.Getenv("API_KEY"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		Model:       os.Getenv("GEMINI_MODEL"),
	})

	if merged.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL environment variable or 'database_url' in the config file)")
	}
	if merged.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY environment variable or 'api_key' in the config file)")
	}
	if merged.ServiceKey == "" {
		return fmt.Errorf("service API key is required (set API_KEY environment variable or 'service_key' in the config file)")
	}

	srv, err := server.New(server.Config{
		Port:         merged.Port,
		DatabaseURL:  merged.DatabaseURL,
		GeminiAPIKey: merged.APIKey,
		APIKey:       merged.ServiceKey,
		Model:        merged.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// loadConfigFile loads and validates the optional JSON config file. An empty
// path yields an empty config.
func loadConfigFile(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
