// Command replay bulk-persists a directory of archived analysis-result
// JSON files (as written by POST /analyze or cmd/analyze) into a case
// store, for backfilling audit history after standing up persistence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/muletrace/backend/internal/casestore"
	"github.com/vanshika/muletrace/backend/internal/config"
	"github.com/vanshika/muletrace/backend/internal/graph"
	"github.com/vanshika/muletrace/backend/internal/logging"
	"github.com/vanshika/muletrace/backend/internal/replay"
)

func main() {
	var (
		dir     = flag.String("dir", "./results", "directory of archived analysis-result JSON files")
		workers = flag.Int("workers", 4, "number of concurrent replay workers")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "replay")

	if cfg.CaseStore.URI == "" {
		logger.Error("CASESTORE_URI is required for replay")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.CaseStore.URI,
		Database:       cfg.CaseStore.Database,
		Username:       cfg.CaseStore.Username,
		Password:       cfg.CaseStore.Password,
		MaxConnections: cfg.CaseStore.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to connect to case store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing case store client failed", "error", err)
		}
	}()

	store := casestore.New(client)
	persistor := replay.NewBulkPersistor(store, *workers)

	start := time.Now()
	logger.Info("replaying archived results", "dir", *dir, "workers", *workers)

	succeeded, err := persistor.Dir(ctx, *dir)
	if err != nil {
		logger.Error("replay finished with failures", "error", err, "succeeded", succeeded)
		os.Exit(1)
	}

	logger.Info("replay complete", "succeeded", succeeded, "duration", time.Since(start).String())
}
