package detect

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

// Config bounds every detector's own slice of the analysis run. Each
// detector gets an independent deadline so a pathological graph that stalls
// one traversal (say, a densely connected shell-chain neighbourhood) cannot
// starve the others of their share of wall-clock time — they all run
// concurrently against the same graph, not in sequence.
type Config struct {
	CycleTimeout time.Duration
	ShellTimeout time.Duration
	SmurfTimeout time.Duration

	CycleMaxRings int
	SmurfMaxRings int
	ShellMaxRings int
}

// DefaultConfig returns conservative per-detector budgets: 10-15s of
// wall-clock time and a ring cap for each structural detector. SmurfMaxRings
// is handed to the smurfing detectors' budgets, but those detectors check
// only their deadline, so the number of hub rings they report is not capped.
func DefaultConfig() Config {
	return Config{
		CycleTimeout: 12 * time.Second,
		ShellTimeout: 10 * time.Second,
		SmurfTimeout: 10 * time.Second,

		CycleMaxRings: maxCycleRings,
		SmurfMaxRings: 2000,
		ShellMaxRings: maxShellChains,
	}
}

// Result is one completed analysis: the deduplicated rings, the per-account
// findings the scorer derived from them, the bounded visualisation payload,
// and the run summary.
type Result struct {
	Rings    []domain.Ring
	Findings []domain.AccountFinding
	Export   domain.GraphExport
	Summary  domain.Summary
}

type workerOutcome struct {
	rings []candidateRing
	err   error
}

// Run drives all three structural detectors concurrently, each against its
// own timeout carved out of cfg, then merges their output in the fixed order
// (cycle, fan-in, fan-out, shell) required for deterministic dedup/scoring
// regardless of which goroutine happens to finish first — the concurrency
// shape is the fan-out/join worker pool internal/replay's BulkPersistor
// uses, generalized from a channel of work items to a fixed slice of
// detector functions.
//
// A detector that panics (an invariant violation, not malformed input) is
// recovered per-worker and surfaces as an error from Run rather than taking
// the whole analysis down with it.
func Run(ctx context.Context, cfg Config, g *domain.Graph, rng *rand.Rand) (Result, error) {
	start := time.Now()

	type job struct {
		name    string
		timeout time.Duration
		run     func(ctx context.Context) []candidateRing
	}

	shellSkipped := false
	jobs := []job{
		{"cycle", cfg.CycleTimeout, func(ctx context.Context) []candidateRing {
			return DetectCycles(NewBudget(ctx, cfg.CycleMaxRings), g)
		}},
		{"smurf_fan_in", cfg.SmurfTimeout, func(ctx context.Context) []candidateRing {
			return DetectSmurfingFanIn(NewBudget(ctx, cfg.SmurfMaxRings), g)
		}},
		{"smurf_fan_out", cfg.SmurfTimeout, func(ctx context.Context) []candidateRing {
			return DetectSmurfingFanOut(NewBudget(ctx, cfg.SmurfMaxRings), g)
		}},
		{"shell", cfg.ShellTimeout, func(ctx context.Context) []candidateRing {
			rings, skipped := DetectShellChains(NewBudget(ctx, cfg.ShellMaxRings), g)
			shellSkipped = skipped
			return rings
		}},
	}

	outcomes := make([]workerOutcome, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i].err = fmt.Errorf("detect: %s panicked: %v", j.name, r)
				}
			}()
			jctx, cancel := context.WithTimeout(ctx, j.timeout)
			defer cancel()
			outcomes[i].rings = j.run(jctx)
		}(i, j)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			return Result{}, o.err
		}
	}

	var merged []candidateRing
	for _, o := range outcomes {
		merged = append(merged, o.rings...)
	}
	for i := range merged {
		merged[i].ring = merged[i].ring.WithDiscoveryIndex(i)
	}

	deduped := Dedup(merged)

	rings := make([]domain.Ring, len(deduped))
	tagsByRing := make(map[string]map[domain.AccountID]string, len(deduped))
	for i, c := range deduped {
		rings[i] = c.ring
		tagsByRing[c.ring.RingID] = c.tags
	}

	findings := Score(rings, tagsByRing)
	export := Export(g, findings, rng)

	summary := domain.Summary{
		TotalAccountsAnalyzed:     g.NumVertices(),
		SuspiciousAccountsFlagged: len(findings),
		FraudRingsDetected:        len(rings),
		ProcessingTimeSeconds:     time.Since(start).Seconds(),
		ShellDetectionSkipped:     shellSkipped,
	}

	return Result{Rings: rings, Findings: findings, Export: export, Summary: summary}, nil
}
