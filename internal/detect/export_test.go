package detect

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

func TestExportUncappedBelowThreshold(t *testing.T) {
	g := domain.NewGraph()
	addEdge(g, "A", "B", "10", time.Now())
	addEdge(g, "B", "C", "10", time.Now())

	export := Export(g, nil, rand.New(rand.NewSource(1)))
	if export.Capped {
		t.Fatalf("did not expect a small graph to be capped")
	}
	if len(export.Nodes) != 3 {
		t.Fatalf("expected all 3 accounts exported, got %d", len(export.Nodes))
	}
	if len(export.Edges) != 2 {
		t.Fatalf("expected both edges exported, got %d", len(export.Edges))
	}
}

func TestExportPrioritizesSuspiciousAccounts(t *testing.T) {
	g := domain.NewGraph()
	total := MaxExportNodes + 50
	for i := 0; i < total; i++ {
		g.EnsureAccount(domain.AccountID(fmt.Sprintf("V%04d", i)))
	}

	findings := []domain.AccountFinding{
		{AccountID: "V0001", SuspicionScore: 95},
		{AccountID: "V0002", SuspicionScore: 90},
	}

	export := Export(g, findings, rand.New(rand.NewSource(1)))
	if !export.Capped {
		t.Fatalf("expected the export to report capping above the node limit")
	}
	if len(export.Nodes) != MaxExportNodes {
		t.Fatalf("expected exactly %d nodes, got %d", MaxExportNodes, len(export.Nodes))
	}

	found := map[domain.AccountID]bool{}
	for _, n := range export.Nodes {
		found[n.ID] = true
	}
	if !found["V0001"] || !found["V0002"] {
		t.Fatalf("expected suspicious accounts to always survive capping")
	}
}
