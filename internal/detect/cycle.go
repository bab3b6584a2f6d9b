package detect

import (
	"fmt"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

const (
	maxCycleStartNodes = 300
	maxCycleRings      = 500
	minCycleLen        = 3
	maxCycleLen        = 5
)

// DetectCycles enumerates simple directed cycles of length 3 to 5.
//
// It walks a bounded prefix of accounts (by descending combined degree, ties
// broken by identifier — domain.Graph.SortedVertices) as candidate start
// vertices, and from each one runs a depth-first search that only extends
// through vertices strictly greater than the start vertex under identifier
// ordering. A cycle is recorded only when it closes back on the start
// vertex, which is therefore guaranteed to be the minimum-identifier vertex
// on the cycle. This "canonical start" rule is what lets each cycle be
// discovered exactly once, from exactly one of its own vertices, with no
// rotation-dedup pass needed afterward, without pulling in a graph library
// for it.
func DetectCycles(budget *Budget, g *domain.Graph) []candidateRing {
	var out []candidateRing
	starts := g.SortedVertices()
	if len(starts) > maxCycleStartNodes {
		starts = starts[:maxCycleStartNodes]
	}

	for _, s := range starts {
		if budget.Expired() || budget.Exceeded(len(out)) {
			break
		}
		walkCyclesFrom(budget, g, s, &out)
	}
	return out
}

func walkCyclesFrom(budget *Budget, g *domain.Graph, start int, out *[]candidateRing) {
	startID := g.AccountAt(start)
	path := []int{start}
	visited := map[int]bool{start: true}

	var walk func(v int)
	walk = func(v int) {
		for _, next := range g.Successors(v) {
			if budget.Expired() || budget.Exceeded(len(*out)) {
				return
			}
			if next == start {
				if n := len(path); n >= minCycleLen && n <= maxCycleLen {
					recordCycle(g, path, out)
				}
				continue
			}
			if visited[next] || g.AccountAt(next) <= startID {
				continue
			}
			if len(path) >= maxCycleLen {
				continue
			}
			visited[next] = true
			path = append(path, next)
			walk(next)
			path = path[:len(path)-1]
			visited[next] = false
		}
	}
	walk(start)
}

func recordCycle(g *domain.Graph, path []int, out *[]candidateRing) {
	members := make([]domain.AccountID, len(path))
	for i, v := range path {
		members[i] = g.AccountAt(v)
	}

	var patternType domain.PatternType
	var riskScore int
	var tag string
	switch len(path) {
	case 3:
		patternType, riskScore, tag = domain.PatternCycle3, 95, domain.TagCycle3
	case 4:
		patternType, riskScore, tag = domain.PatternCycle4, 92, domain.TagCycle4
	case 5:
		patternType, riskScore, tag = domain.PatternCycle5, 90, domain.TagCycle5
	default:
		panic(fmt.Sprintf("detect: cycle of impossible length %d", len(path)))
	}

	*out = append(*out, candidateRing{
		ring: domain.Ring{
			PatternType:       patternType,
			Members:           members,
			RiskScore:         riskScore,
			TemporalConfirmed: false, // temporal ordering is not evaluated for cycles
		},
		tags: uniformTags(members, tag),
	})
}
