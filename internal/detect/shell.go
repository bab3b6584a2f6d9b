package detect

import (
	"github.com/vanshika/muletrace/backend/internal/domain"
)

const (
	shellSkipVertexCount = 2000
	maxShellChains       = 200
	minShellHops         = 3
	maxShellHops         = 4
)

// DetectShellChains finds layered pass-through chains: an account with no
// incoming edges (an "origin", the entry point of laundered funds) reaching,
// three or four hops later, an account through interior vertices that each
// have exactly one predecessor — accounts that exist only to relay funds
// from the one account upstream of them, the structural signature of a
// disposable shell layer.
//
// Origins are enumerated by domain.Graph.SortedVertices (descending combined
// degree, ties broken by identifier) — the same deterministic candidate
// order the cycle detector uses, so both structural detectors are governed
// by one ordering rule.
//
// On graphs above shellSkipVertexCount vertices the detector is skipped
// outright rather than bounded, since a bounded DFS over that many origins
// still risks starving the other detectors of their share of the shared
// deadline; the caller records this in the run summary (Summary.
// ShellDetectionSkipped).
func DetectShellChains(budget *Budget, g *domain.Graph) (rings []candidateRing, skipped bool) {
	if g.NumVertices() > shellSkipVertexCount {
		return nil, true
	}

	for _, origin := range g.SortedVertices() {
		if budget.Expired() || budget.Exceeded(len(rings)) {
			break
		}
		if g.InDegree(origin) != 0 || g.OutDegree(origin) == 0 {
			continue
		}
		walkShellFrom(budget, g, origin, &rings)
	}
	return rings, false
}

func walkShellFrom(budget *Budget, g *domain.Graph, origin int, out *[]candidateRing) {
	path := []int{origin}
	firstTS := make([]int64, 0, maxShellHops)
	visited := map[int]bool{origin: true}

	var walk func(v int)
	walk = func(v int) {
		for _, ei := range g.OutEdges(v) {
			if budget.Expired() || budget.Exceeded(len(*out)) {
				return
			}
			e := g.Edge(ei)
			next := e.To
			if visited[next] {
				continue
			}

			path = append(path, next)
			firstTS = append(firstTS, e.FirstTS.Unix())
			visited[next] = true

			hops := len(path) - 1
			if hops >= minShellHops && interiorHasSinglePredecessor(g, path) {
				recordShellChain(g, path, firstTS, out)
			}
			if hops < maxShellHops {
				walk(next)
			}

			visited[next] = false
			firstTS = firstTS[:len(firstTS)-1]
			path = path[:len(path)-1]
		}
	}
	walk(origin)
}

func interiorHasSinglePredecessor(g *domain.Graph, path []int) bool {
	for i := 1; i < len(path)-1; i++ {
		if g.InDegree(path[i]) != 1 {
			return false
		}
	}
	return true
}

func recordShellChain(g *domain.Graph, path []int, firstTS []int64, out *[]candidateRing) {
	members := make([]domain.AccountID, len(path))
	for i, v := range path {
		members[i] = g.AccountAt(v)
	}

	temporal := true
	for i := 1; i < len(firstTS); i++ {
		if firstTS[i] < firstTS[i-1] {
			temporal = false
			break
		}
	}

	riskScore := 75
	if temporal {
		riskScore = 80
	}

	*out = append(*out, candidateRing{
		ring: domain.Ring{
			PatternType:       domain.PatternLayeredShell,
			Members:           members,
			RiskScore:         riskScore,
			TemporalConfirmed: temporal,
		},
		tags: uniformTags(members, domain.TagLayeredShell),
	})
}
