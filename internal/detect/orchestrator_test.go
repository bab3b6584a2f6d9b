package detect

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

func TestRunEndToEndTriangleProducesOneRing(t *testing.T) {
	g := domain.NewGraph()
	now := time.Now()
	addEdge(g, "A", "B", "100", now)
	addEdge(g, "B", "C", "100", now)
	addEdge(g, "C", "A", "100", now)

	result, err := Run(context.Background(), DefaultConfig(), g, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rings) != 1 {
		t.Fatalf("expected one ring, got %d", len(result.Rings))
	}
	if result.Rings[0].RingID != "RING_001" {
		t.Fatalf("expected the first ring to be numbered RING_001, got %s", result.Rings[0].RingID)
	}
	if len(result.Findings) != 3 {
		t.Fatalf("expected 3 accounts implicated, got %d", len(result.Findings))
	}
	if result.Summary.TotalAccountsAnalyzed != 3 || result.Summary.FraudRingsDetected != 1 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
	if result.Summary.ShellDetectionSkipped {
		t.Fatalf("did not expect shell detection to be skipped on a tiny graph")
	}
}

func TestRunOnCleanGraphProducesNoFindings(t *testing.T) {
	g := domain.NewGraph()
	now := time.Now()
	addEdge(g, "A", "B", "100", now)
	addEdge(g, "B", "C", "100", now)

	result, err := Run(context.Background(), DefaultConfig(), g, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rings) != 0 || len(result.Findings) != 0 {
		t.Fatalf("expected no findings on an acyclic low-degree graph, got %d rings / %d findings", len(result.Rings), len(result.Findings))
	}
}

func TestRunIsDeterministicAcrossRecordOrder(t *testing.T) {
	build := func(order [][2]domain.AccountID) *domain.Graph {
		g := domain.NewGraph()
		now := time.Now()
		for _, pair := range order {
			addEdge(g, pair[0], pair[1], "100", now)
		}
		return g
	}

	forward := build([][2]domain.AccountID{{"A", "B"}, {"B", "C"}, {"C", "A"}})
	backward := build([][2]domain.AccountID{{"C", "A"}, {"B", "C"}, {"A", "B"}})

	r1, err := Run(context.Background(), DefaultConfig(), forward, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := Run(context.Background(), DefaultConfig(), backward, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r1.Rings) != len(r2.Rings) || len(r1.Rings) != 1 {
		t.Fatalf("expected matching single-ring results, got %d vs %d", len(r1.Rings), len(r2.Rings))
	}
	if r1.Rings[0].PatternType != r2.Rings[0].PatternType || r1.Rings[0].RiskScore != r2.Rings[0].RiskScore {
		t.Fatalf("expected identical ring regardless of record order, got %+v vs %+v", r1.Rings[0], r2.Rings[0])
	}
}
