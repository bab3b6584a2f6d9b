package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/muletrace/backend/internal/casestore"
	"github.com/vanshika/muletrace/backend/internal/config"
	"github.com/vanshika/muletrace/backend/internal/detect"
	"github.com/vanshika/muletrace/backend/internal/graph"
	"github.com/vanshika/muletrace/backend/internal/logging"
	"github.com/vanshika/muletrace/backend/internal/pipeline"
	"github.com/vanshika/muletrace/backend/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	caseClient, err := buildCaseStoreClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create case store client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if caseClient != nil {
			if err := caseClient.Close(context.Background()); err != nil {
				logger.Warn("closing case store client failed", "error", err)
			}
		}
	}()

	store := casestore.New(caseClient)
	svc := pipeline.New(logger,
		pipeline.WithDetectorConfig(detect.Config{
			CycleTimeout:  cfg.Detector.CycleTimeout,
			ShellTimeout:  cfg.Detector.ShellTimeout,
			SmurfTimeout:  cfg.Detector.SmurfTimeout,
			CycleMaxRings: cfg.Detector.CycleMaxRings,
			SmurfMaxRings: cfg.Detector.SmurfMaxRings,
			ShellMaxRings: cfg.Detector.ShellMaxRings,
		}),
		pipeline.WithCaseStore(store),
	)

	apiHandlers := server.NewAPIHandlers(logger, svc, cfg.HTTP.MaxUploadBytes)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: caseClient},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildCaseStoreClient returns nil, nil when no case store URI is
// configured. Persistence is optional: an analysis run never depends on a
// prior one, so a deployment can skip standing up a graph client entirely
// and still get full results back from every request.
func buildCaseStoreClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.CaseStore.URI == "" {
		logger.Info("no case store configured, analyses will not be persisted")
		return nil, nil
	}

	opts := graph.Options{
		URI:            cfg.CaseStore.URI,
		Database:       cfg.CaseStore.Database,
		Username:       cfg.CaseStore.Username,
		Password:       cfg.CaseStore.Password,
		MaxConnections: cfg.CaseStore.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
