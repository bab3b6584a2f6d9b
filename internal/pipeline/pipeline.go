// Package pipeline composes the Record Normaliser, Graph Builder, Detector
// Orchestrator, and the optional case store into the single call each entry
// point (HTTP handler, CLI) drives an analysis through.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/vanshika/muletrace/backend/internal/casestore"
	"github.com/vanshika/muletrace/backend/internal/detect"
	"github.com/vanshika/muletrace/backend/internal/domain"
	"github.com/vanshika/muletrace/backend/internal/graphbuild"
	"github.com/vanshika/muletrace/backend/internal/ingest"
)

// Result is what one Analyze call returns: everything a caller needs to
// render a response or write a report.
type Result struct {
	Rings    []domain.Ring
	Findings []domain.AccountFinding
	Export   domain.GraphExport
	Summary  domain.Summary
	Stats    ingest.Stats
	CaseID   string
}

// Service ties the pipeline stages to a logger and an optional case store.
type Service struct {
	logger    *slog.Logger
	detectCfg detect.Config
	store     *casestore.Store
	persist   bool
}

// Option configures a Service.
type Option func(*Service)

// WithDetectorConfig overrides the default per-detector budgets.
func WithDetectorConfig(cfg detect.Config) Option {
	return func(s *Service) { s.detectCfg = cfg }
}

// WithCaseStore attaches a case store and enables persistence of completed
// analyses. Passing a disabled store (New(nil)) is equivalent to omitting
// this option.
func WithCaseStore(store *casestore.Store) Option {
	return func(s *Service) {
		s.store = store
		s.persist = store.Enabled()
	}
}

// New builds a Service ready to analyze CSV batches.
func New(logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		logger:    logger,
		detectCfg: detect.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs one batch through the full pipeline: normalize, build,
// detect, score, export, and (if a case store is attached) persist. The
// returned error is either an *ingest.InputError (malformed input, surface
// as 4xx) or an internal failure (surface as 5xx) — callers distinguish
// with ingest.IsInputError.
func (s *Service) Analyze(ctx context.Context, r io.Reader) (Result, error) {
	records, stats, err := ingest.Normalize(r)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("normalized batch",
		"accepted", stats.Accepted,
		"duplicates_dropped", stats.DuplicatesDrop,
		"self_loops_dropped", stats.SelfLoopsDrop,
		"non_positive_dropped", stats.NonPositiveDrop,
	)

	g := graphbuild.Build(records)
	s.logger.Info("built graph", "accounts", g.NumVertices(), "edges", g.NumEdges())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	out, err := detect.Run(ctx, s.detectCfg, g, rng)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: detection failed: %w", err)
	}
	s.logger.Info("analysis complete",
		"rings", len(out.Rings),
		"suspicious_accounts", len(out.Findings),
		"processing_seconds", out.Summary.ProcessingTimeSeconds,
		"shell_skipped", out.Summary.ShellDetectionSkipped,
	)

	result := Result{
		Rings:    out.Rings,
		Findings: out.Findings,
		Export:   out.Export,
		Summary:  out.Summary,
		Stats:    stats,
	}

	if s.persist {
		caseID, err := s.store.Record(ctx, out.Summary, out.Rings, out.Findings)
		if err != nil {
			s.logger.Error("case store write failed", "error", err)
		} else {
			result.CaseID = caseID
		}
	}

	return result, nil
}
