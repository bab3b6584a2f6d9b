package graphbuild

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

func rec(id string, from, to domain.AccountID, amount string, ts time.Time) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID: id,
		Sender:        from,
		Receiver:      to,
		Amount:        decimal.RequireFromString(amount),
		Timestamp:     ts,
	}
}

func TestBuildAggregatesParallelEdges(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	g := Build([]domain.TransactionRecord{
		rec("T1", "A", "B", "100", t1),
		rec("T2", "A", "B", "50", t0),
	})

	if g.NumVertices() != 2 || g.NumEdges() != 1 {
		t.Fatalf("expected 1 aggregated edge over 2 vertices, got %d vertices / %d edges", g.NumVertices(), g.NumEdges())
	}

	a, _ := g.IndexOf("A")
	b, _ := g.IndexOf("B")
	ei, ok := g.EdgeIndexBetween(a, b)
	if !ok {
		t.Fatalf("expected edge A->B")
	}
	e := g.Edge(ei)
	if !e.Weight.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("expected weight 150, got %s", e.Weight)
	}
	if e.Count != 2 {
		t.Fatalf("expected count 2, got %d", e.Count)
	}
	if !e.FirstTS.Equal(t0) || !e.LastTS.Equal(t1) {
		t.Fatalf("expected first/last ts to be min/max regardless of input order")
	}
}

func TestBuildOrderIndependence(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	forward := Build([]domain.TransactionRecord{
		rec("T1", "A", "B", "100", t0),
		rec("T2", "A", "B", "50", t1),
	})
	backward := Build([]domain.TransactionRecord{
		rec("T2", "A", "B", "50", t1),
		rec("T1", "A", "B", "100", t0),
	})

	a1, _ := forward.IndexOf("A")
	b1, _ := forward.IndexOf("B")
	ei1, _ := forward.EdgeIndexBetween(a1, b1)
	e1 := forward.Edge(ei1)

	a2, _ := backward.IndexOf("A")
	b2, _ := backward.IndexOf("B")
	ei2, _ := backward.EdgeIndexBetween(a2, b2)
	e2 := backward.Edge(ei2)

	if !e1.Weight.Equal(e2.Weight) || e1.Count != e2.Count || !e1.FirstTS.Equal(e2.FirstTS) || !e1.LastTS.Equal(e2.LastTS) {
		t.Fatalf("expected order-independent aggregation, got %+v vs %+v", e1, e2)
	}
}

func TestBuildRejectsSelfLoop(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on self-loop")
		}
	}()
	Build([]domain.TransactionRecord{rec("T1", "A", "A", "10", time.Now())})
}
