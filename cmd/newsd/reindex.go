package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func reindexCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector collection from the article store",
		Long: `Rebuild the vector collection from every persisted article.

Use this after indexing failures during ingestion, after switching the
embedding model, or after the collection was destroyed. The article store
is the source of truth; the collection is always reconstructable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReindex(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runReindex(envFile string) error {
	client, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	indexed, failed, err := client.Reindex(ctx)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	fmt.Printf("indexed: %d\n", indexed)
	fmt.Printf("failed:  %d\n", failed)
	return nil
}
