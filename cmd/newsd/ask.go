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

func askCmd() *cobra.Command {
	var (
		envFile     string
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about the indexed news",
		Long: `Ask a free-text question. The most similar indexed articles are
retrieved as context and handed to the generation model; if retrieval
fails the question is answered without grounding.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(envFile, strings.Join(args, " "), showSources)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().BoolVar(&showSources, "sources", false, "Print the articles used as context")

	return cmd
}

func runAsk(envFile, question string, showSources bool) error {
	client, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	answer, err := client.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	fmt.Println(answer.Text())

	if showSources {
		sources := answer.Sources()
		if len(sources) == 0 {
			fmt.Println("\n(no grounding articles found)")
			return nil
		}
		fmt.Println("\nSources:")
		for i, m := range sources {
			fmt.Printf("  [%d] %s (%s) score=%.3f\n      %s\n",
				i+1, m.Payload.Title, m.Payload.Source, m.Score, m.Payload.URL)
		}
	}
	return nil
}
