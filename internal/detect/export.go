package detect

import (
	"math/rand"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

// MaxExportNodes bounds the visualisation payload. A full analysis graph can
// run into the tens of thousands of accounts; no front end renders that
// usefully, so the export favours signal over completeness.
const MaxExportNodes = 500

// Export builds the bounded visualisation payload: every suspicious account
// (up to the cap) plus a uniform random sample of clean accounts filling
// whatever room remains, and every edge whose endpoints both survived. rng
// is caller-supplied so callers needing reproducible output (tests) can
// pass a seeded source; production callers pass a time-seeded one.
func Export(g *domain.Graph, findings []domain.AccountFinding, rng *rand.Rand) domain.GraphExport {
	total := g.NumVertices()
	scores := make(map[domain.AccountID]int, len(findings))
	for _, f := range findings {
		scores[f.AccountID] = f.SuspicionScore
	}

	if total <= MaxExportNodes {
		return buildExport(g, g.Accounts(), scores, false)
	}

	suspicious := make([]domain.AccountID, 0, len(findings))
	for _, f := range findings {
		suspicious = append(suspicious, f.AccountID)
	}
	if len(suspicious) > MaxExportNodes {
		suspicious = suspicious[:MaxExportNodes]
	}

	included := make(map[domain.AccountID]bool, MaxExportNodes)
	selected := make([]domain.AccountID, 0, MaxExportNodes)
	for _, id := range suspicious {
		included[id] = true
		selected = append(selected, id)
	}

	remaining := MaxExportNodes - len(selected)
	if remaining > 0 {
		clean := make([]domain.AccountID, 0, total-len(selected))
		for _, id := range g.Accounts() {
			if !included[id] {
				clean = append(clean, id)
			}
		}
		rng.Shuffle(len(clean), func(i, j int) { clean[i], clean[j] = clean[j], clean[i] })
		if remaining > len(clean) {
			remaining = len(clean)
		}
		selected = append(selected, clean[:remaining]...)
	}

	return buildExport(g, selected, scores, true)
}

func buildExport(g *domain.Graph, accounts []domain.AccountID, scores map[domain.AccountID]int, capped bool) domain.GraphExport {
	nodeSet := make(map[domain.AccountID]bool, len(accounts))
	nodes := make([]domain.ExportNode, 0, len(accounts))
	for _, id := range accounts {
		nodeSet[id] = true
		score, has := scores[id]
		nodes = append(nodes, domain.ExportNode{
			ID:             id,
			Suspicious:     has,
			SuspicionScore: score,
			HasScore:       has,
		})
	}

	var edges []domain.ExportEdge
	for v := 0; v < g.NumVertices(); v++ {
		from := g.AccountAt(v)
		if !nodeSet[from] {
			continue
		}
		for _, ei := range g.OutEdges(v) {
			e := g.Edge(ei)
			to := g.AccountAt(e.To)
			if nodeSet[to] {
				edges = append(edges, domain.ExportEdge{Source: from, Target: to})
			}
		}
	}

	return domain.GraphExport{
		Nodes:    nodes,
		Edges:    edges,
		Capped:   capped,
		CapLimit: MaxExportNodes,
	}
}
