package detect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

// Dedup collapses rings that share an identical member set — the same
// account cluster can legitimately surface from more than one detector, or
// even more than once from the same detector's traversal of an ambiguous
// structure — keeping the highest-risk-score survivor. Ties keep whichever
// ring was discovered first, which happens automatically here since rings
// are supplied (and therefore encountered) in ascending discovery-index
// order and only a strictly higher score displaces the incumbent.
//
// Survivors are renumbered RING_001, RING_002, ... in ascending order of
// their colliding group's first-discovery index — the position at which
// Dedup first saw that member set — so ring identifiers are stable across
// runs of the same input regardless of which candidate within a group
// ultimately won. This is deliberately not the winner's own discovery
// index: a later-discovered, higher-scoring candidate can win a collision
// (e.g. a fan-out ring beating an earlier fan-in ring over the same
// account set), and re-sorting by the winner's index would then place that
// group out of the order it was actually first discovered in.
func Dedup(rings []candidateRing) []candidateRing {
	winners := make(map[string]candidateRing, len(rings))
	order := make([]string, 0, len(rings))

	for _, r := range rings {
		key := memberKey(r.ring.Members)
		existing, ok := winners[key]
		if !ok {
			order = append(order, key)
			winners[key] = r
			continue
		}
		if r.ring.RiskScore > existing.ring.RiskScore {
			winners[key] = r
		}
	}

	// rings is supplied in ascending discovery-index order, so order already
	// lists groups in ascending first-discovery order — no further sort needed.
	result := make([]candidateRing, 0, len(winners))
	for i, key := range order {
		winner := winners[key]
		winner.ring.RingID = fmt.Sprintf("RING_%03d", i+1)
		result = append(result, winner)
	}
	return result
}

func memberKey(members []domain.AccountID) string {
	sorted := make([]string, len(members))
	for i, id := range members {
		sorted[i] = string(id)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
