package detect

import (
	"testing"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

func candidate(members []domain.AccountID, patternType domain.PatternType, risk int, tag string) candidateRing {
	return candidateRing{
		ring: domain.Ring{
			PatternType: patternType,
			Members:     members,
			RiskScore:   risk,
		},
		tags: uniformTags(members, tag),
	}
}

func TestDedupKeepsHighestRiskSurvivor(t *testing.T) {
	members := []domain.AccountID{"A", "B", "C"}
	low := candidate(members, domain.PatternCycle3, 95, domain.TagCycle3)
	high := candidate([]domain.AccountID{"C", "B", "A"}, domain.PatternLayeredShell, 99, domain.TagLayeredShell)

	rings := []candidateRing{low, high}
	for i := range rings {
		rings[i].ring = rings[i].ring.WithDiscoveryIndex(i)
	}

	out := Dedup(rings)
	if len(out) != 1 {
		t.Fatalf("expected member-set collision to collapse to one ring, got %d", len(out))
	}
	if out[0].ring.RiskScore != 99 {
		t.Fatalf("expected the higher-scoring ring to survive, got risk %d", out[0].ring.RiskScore)
	}
	if out[0].ring.RingID != "RING_001" {
		t.Fatalf("expected contiguous renumbering starting at RING_001, got %s", out[0].ring.RingID)
	}
}

func TestDedupPreservesDistinctMemberSets(t *testing.T) {
	rings := []candidateRing{
		candidate([]domain.AccountID{"A", "B", "C"}, domain.PatternCycle3, 95, domain.TagCycle3),
		candidate([]domain.AccountID{"D", "E", "F"}, domain.PatternCycle3, 95, domain.TagCycle3),
	}
	for i := range rings {
		rings[i].ring = rings[i].ring.WithDiscoveryIndex(i)
	}

	out := Dedup(rings)
	if len(out) != 2 {
		t.Fatalf("expected two distinct rings to survive, got %d", len(out))
	}
	if out[0].ring.RingID != "RING_001" || out[1].ring.RingID != "RING_002" {
		t.Fatalf("expected sequential ring ids, got %s / %s", out[0].ring.RingID, out[1].ring.RingID)
	}
}

func TestDedupOrdersByGroupFirstDiscoveryNotWinnerDiscovery(t *testing.T) {
	// Group X is discovered first (index 0) but its higher-scoring winner
	// (a fan-out ring, discovered later) arrives after an unrelated group Y
	// (discovered at index 1). Renumbering must still place X's ring first,
	// since X's *group* was discovered before Y's.
	groupXFirstSeen := candidate([]domain.AccountID{"A", "B", "C"}, domain.PatternSmurfingFanIn, 85, domain.TagFanInHub)
	groupY := candidate([]domain.AccountID{"D", "E", "F"}, domain.PatternCycle3, 95, domain.TagCycle3)
	groupXWinner := candidate([]domain.AccountID{"C", "B", "A"}, domain.PatternSmurfingFanOut, 90, domain.TagFanOutHub)

	rings := []candidateRing{groupXFirstSeen, groupY, groupXWinner}
	for i := range rings {
		rings[i].ring = rings[i].ring.WithDiscoveryIndex(i)
	}

	out := Dedup(rings)
	if len(out) != 2 {
		t.Fatalf("expected two surviving groups, got %d", len(out))
	}
	if out[0].ring.RingID != "RING_001" || out[0].ring.RiskScore != 90 {
		t.Fatalf("expected group X's higher-scoring winner to be RING_001, got %s risk %d", out[0].ring.RingID, out[0].ring.RiskScore)
	}
	if out[1].ring.RingID != "RING_002" || out[1].ring.RiskScore != 95 {
		t.Fatalf("expected group Y to be RING_002, got %s risk %d", out[1].ring.RingID, out[1].ring.RiskScore)
	}
}

func TestDedupTieBreaksTowardEarlierDiscovery(t *testing.T) {
	members := []domain.AccountID{"A", "B", "C"}
	first := candidate(members, domain.PatternCycle3, 95, domain.TagCycle3)
	second := candidate(members, domain.PatternCycle3, 95, domain.TagCycle3)

	rings := []candidateRing{first, second}
	for i := range rings {
		rings[i].ring = rings[i].ring.WithDiscoveryIndex(i)
	}

	out := Dedup(rings)
	if len(out) != 1 {
		t.Fatalf("expected one survivor, got %d", len(out))
	}
	if out[0].ring.DiscoveryIndex() != 0 {
		t.Fatalf("expected the earlier-discovered ring to win an equal-score tie, got discovery index %d", out[0].ring.DiscoveryIndex())
	}
}
