// Package main is the entry point for the newsd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	geoecon "github.com/abhishekgitt/geo-economy-analyzer-ai"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/config"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsd",
		Short: "Geo-economy news ingestion and analysis",
		Long: `newsd ingests global economic and job market news, deduplicates and
ranks the candidates, extracts full article text, and keeps a semantic
vector index for similarity search and grounded question answering.`,
	}

	cmd.AddCommand(fetchCmd())
	cmd.AddCommand(summarizeCmd())
	cmd.AddCommand(reindexCmd())
	cmd.AddCommand(seedCmd())
	cmd.AddCommand(askCmd())
	cmd.AddCommand(searchCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newClient builds a Client from the resolved configuration and installs
// the configured logger as the process default.
func newClient(envFile string) (*geoecon.Client, error) {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogger(cfg)
	logger.SetDefault()

	client, err := geoecon.New(
		geoecon.WithConfig(cfg),
		geoecon.WithLogger(logger.Slog()),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}
