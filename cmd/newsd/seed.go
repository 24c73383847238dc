package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// topicSeedFile is the YAML layout accepted by --file.
type topicSeedFile struct {
	Topics []string `yaml:"topics"`
}

func seedCmd() *cobra.Command {
	var (
		envFile  string
		seedFile string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Pre-create topics",
		Long: `Pre-create topics so the topic table is populated before the first
ingestion run. Without --file the configured keyword vocabulary is seeded.

The seed file is YAML:

  topics:
    - inflation
    - trade war
    - layoffs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(envFile, seedFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&seedFile, "file", "", "YAML file with a topics list (default: keyword vocabulary)")

	return cmd
}

func runSeed(envFile, seedFile string) error {
	var names []string
	if seedFile != "" {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		var parsed topicSeedFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("parse seed file: %w", err)
		}
		names = parsed.Topics
	}

	client, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	created, err := client.SeedTopics(context.Background(), names)
	if err != nil {
		return fmt.Errorf("seed topics: %w", err)
	}

	fmt.Printf("created: %d\n", created)
	return nil
}
