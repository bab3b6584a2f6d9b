// Command analyze runs the money-muling detection pipeline against a local
// CSV file, printing the resulting rings, findings, and summary as JSON.
// It is the offline counterpart to POST /analyze — useful for CI-driven
// backtesting against a fixture batch without standing up the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/muletrace/backend/internal/casestore"
	"github.com/vanshika/muletrace/backend/internal/config"
	"github.com/vanshika/muletrace/backend/internal/graph"
	"github.com/vanshika/muletrace/backend/internal/logging"
	"github.com/vanshika/muletrace/backend/internal/pipeline"
)

var (
	inputPath  string
	persistURI string
	timeout    time.Duration
)

func main() {
	root := &cobra.Command{
		Use:   "analyze",
		Short: "Run the fraud detection pipeline against a transaction CSV batch",
		RunE:  run,
	}
	root.Flags().StringVarP(&inputPath, "input", "i", "", "path to the transaction CSV batch (required)")
	root.Flags().StringVar(&persistURI, "persist", "", "Neo4j URI to record the completed analysis to (optional)")
	root.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "overall analysis deadline")
	_ = root.MarkFlagRequired("input")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger := logging.New(config.LoggingConfig{Level: "info", Format: "text"})

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	var store *casestore.Store
	var client graph.Client
	if persistURI != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		client, err = graph.NewNeo4jClient(ctx, graph.Options{URI: persistURI})
		if err != nil {
			return fmt.Errorf("connect to case store: %w", err)
		}
		defer client.Close(context.Background())
	}
	store = casestore.New(client)

	svc := pipeline.New(logger, pipeline.WithCaseStore(store))

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := svc.Analyze(ctx, file)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"suspicious_accounts": result.Findings,
		"fraud_rings":         result.Rings,
		"summary":             result.Summary,
		"graph_data":          result.Export,
		"case_id":             result.CaseID,
	})
}
