package casestore

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshika/muletrace/backend/internal/domain"
	"github.com/vanshika/muletrace/backend/internal/graph"
)

func TestRecordDisabledWithNoClient(t *testing.T) {
	s := New(nil)
	if s.Enabled() {
		t.Fatalf("expected a nil client to disable the store")
	}
	id, err := s.Record(context.Background(), domain.Summary{}, nil, nil)
	if err != nil || id != "" {
		t.Fatalf("expected a no-op record, got id=%q err=%v", id, err)
	}
}

func TestRecordWritesOneCase(t *testing.T) {
	mem := graph.NewMemoryClient()
	s := New(mem)

	summary := domain.Summary{TotalAccountsAnalyzed: 3, FraudRingsDetected: 1}
	rings := []domain.Ring{{RingID: "RING_001", PatternType: domain.PatternCycle3, Members: []domain.AccountID{"A", "B", "C"}, RiskScore: 95}}
	findings := []domain.AccountFinding{{AccountID: "A", SuspicionScore: 95}}

	id, err := s.Record(context.Background(), summary, rings, findings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a non-empty case id")
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(calls))
	}
	if calls[0].Params["id"] != id {
		t.Fatalf("expected the write to carry the returned case id")
	}
}

func TestRecordPropagatesClientError(t *testing.T) {
	mem := graph.NewMemoryClient().WithError(errors.New("boom"))
	s := New(mem)

	_, err := s.Record(context.Background(), domain.Summary{}, nil, nil)
	if err == nil {
		t.Fatalf("expected the client error to propagate")
	}
}
