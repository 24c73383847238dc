package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		envFile string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find indexed articles similar to a query",
		Long: `Run a semantic similarity search over the vector index and print the
matching articles, best match first. Articles that were saved but never
indexed (for example because embedding failed) will not appear.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(envFile, strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of matches (default: configured search limit)")

	return cmd
}

func runSearch(envFile, query string, limit int) error {
	client, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	matches, err := client.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}

	for i, m := range matches {
		fmt.Printf("[%d] %s (%s) score=%.3f\n    %s\n", i+1, m.Payload.Title, m.Payload.Source, m.Score, m.Payload.URL)
		if m.Payload.Snippet != "" {
			fmt.Printf("    %s\n", m.Payload.Snippet)
		}
	}
	return nil
}
