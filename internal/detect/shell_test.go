package detect

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

func TestDetectShellChainsFindsLayeredChain(t *testing.T) {
	g := domain.NewGraph()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// ORIGIN -> M1 -> M2 -> DEST, M1 and M2 have exactly one predecessor each.
	addEdge(g, "ORIGIN", "M1", "500", base)
	addEdge(g, "M1", "M2", "500", base.Add(time.Hour))
	addEdge(g, "M2", "DEST", "500", base.Add(2*time.Hour))

	budget := NewBudget(context.Background(), maxShellChains)
	rings, skipped := DetectShellChains(budget, g)
	if skipped {
		t.Fatalf("did not expect the detector to skip a small graph")
	}
	if len(rings) != 1 {
		t.Fatalf("expected one shell chain, got %d", len(rings))
	}
	r := rings[0].ring
	if r.PatternType != domain.PatternLayeredShell {
		t.Fatalf("unexpected pattern type %s", r.PatternType)
	}
	if !r.TemporalConfirmed || r.RiskScore != 80 {
		t.Fatalf("expected temporally-ordered chain at risk 80, got %+v", r)
	}
	if len(r.Members) != 4 {
		t.Fatalf("expected 4 members (origin + 2 interior + dest), got %d", len(r.Members))
	}
}

func TestDetectShellChainsRejectsBranchingInterior(t *testing.T) {
	g := domain.NewGraph()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	addEdge(g, "ORIGIN", "M1", "500", base)
	addEdge(g, "OTHER", "M1", "10", base) // M1 now has two predecessors
	addEdge(g, "M1", "M2", "500", base.Add(time.Hour))
	addEdge(g, "M2", "DEST", "500", base.Add(2*time.Hour))

	budget := NewBudget(context.Background(), maxShellChains)
	rings, _ := DetectShellChains(budget, g)
	if len(rings) != 0 {
		t.Fatalf("expected chains through a branching interior vertex to be rejected, got %d", len(rings))
	}
}

func TestDetectShellChainsNonTemporalOrder(t *testing.T) {
	g := domain.NewGraph()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	addEdge(g, "ORIGIN", "M1", "500", base.Add(5*time.Hour))
	addEdge(g, "M1", "M2", "500", base) // earlier than the origin leg
	addEdge(g, "M2", "DEST", "500", base.Add(2*time.Hour))

	budget := NewBudget(context.Background(), maxShellChains)
	rings, _ := DetectShellChains(budget, g)
	if len(rings) != 1 {
		t.Fatalf("expected the chain to still be reported without temporal ordering, got %d", len(rings))
	}
	if rings[0].ring.TemporalConfirmed || rings[0].ring.RiskScore != 75 {
		t.Fatalf("expected non-temporal chain at risk 75, got %+v", rings[0].ring)
	}
}

func TestDetectShellChainsSkipsLargeGraphs(t *testing.T) {
	g := domain.NewGraph()
	for i := 0; i < shellSkipVertexCount+1; i++ {
		g.EnsureAccount(domain.AccountID(fmt.Sprintf("V%d", i)))
	}

	budget := NewBudget(context.Background(), maxShellChains)
	_, skipped := DetectShellChains(budget, g)
	if !skipped {
		t.Fatalf("expected the detector to skip a graph above the vertex threshold")
	}
}
