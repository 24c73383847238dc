package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one ingestion pass",
		Long: `Run one full ingestion pass: query the news feed for the configured
keyword vocabulary, deduplicate and rank the candidates, extract full
article text where the feed snippet is too thin, then persist, tag and
index the survivors.

Environment variables:
  DATA_DIR               Data directory (default: ~/.geoecon)
  DB_URL                 Database URL (default: sqlite:///{data_dir}/geoecon.db)
  LOG_LEVEL              Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT             Log format: pretty, json (default: pretty)
  KEYWORDS               Comma-separated keyword vocabulary
  TOP_N                  Ranking cutoff (default: 20)
  MIN_ARTICLE_WORDS      Body length floor in words (default: 300)

  FEED_*                 Feed provider (BASE_URL, MAX_RECORDS, LANGUAGE,
                         TIMEOUT_SECONDS, PAUSE_SECONDS, CHUNK_SIZE, USER_AGENT)
  EXTRACT_*              Extraction (MIN_WORDS, TIMEOUT_SECONDS, WORKERS)
  EMBEDDING_*            Embedding endpoint (BASE_URL, MODEL, API_KEY, ...)
  CHAT_*                 Generation endpoint (BASE_URL, MODELS, API_KEY, ...)
  QDRANT_*               Vector store (HOST, PORT, API_KEY, USE_TLS,
                         COLLECTION, VECTOR_SIZE)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runFetch(envFile string) error {
	client, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, err := client.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("ingestion run: %w", err)
	}

	fmt.Printf("fetched:   %d\n", report.Fetched())
	fmt.Printf("candidates: %d\n", report.Candidates())
	fmt.Printf("saved:     %d\n", report.Saved())
	fmt.Printf("updated:   %d\n", report.Updated())
	fmt.Printf("skipped:   %d\n", report.Skipped())
	fmt.Printf("indexed:   %d\n", report.Indexed())
	fmt.Printf("failures:  %d\n", report.Failures())
	return nil
}
