package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func summarizeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Generate AI summaries for newly ingested articles",
		Long: `Generate summaries for articles that only carry the provisional
ingestion-time summary (the article body). Each pending article is sent to
the generation model and its summary page is updated with the result and
the model that produced it. Articles that fail are retried on the next run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runSummarize(envFile string) error {
	client, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summarized, failed, err := client.Summarize(ctx)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	fmt.Printf("summarized: %d\n", summarized)
	fmt.Printf("failed:     %d\n", failed)
	return nil
}
