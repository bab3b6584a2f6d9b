package detect

import (
	"time"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

const (
	minFanDegree   = 10
	temporalWindow = 72 * time.Hour
)

// DetectSmurfingFanIn finds hub accounts receiving from at least ten distinct
// senders. Whether the receiving edges all fall inside one 72-hour window
// (latest LastTS minus earliest FirstTS at most 72 hours) changes the ring's risk score and the tag (hence base contribution)
// each member earns, but a fan-in cluster outside the window is still
// reported — the window is a scoring signal, not a hard filter on whether
// the cluster gets reported at all.
//
// Candidate hubs are enumerated in identifier order (domain.Graph.
// IDSortedVertices) rather than raw vertex-index order, so output is
// unaffected by the order accounts first appeared in the input batch.
func DetectSmurfingFanIn(budget *Budget, g *domain.Graph) []candidateRing {
	return detectFan(budget, g, true)
}

// DetectSmurfingFanOut is the structural mirror of DetectSmurfingFanIn, over
// successors and outgoing edges instead of predecessors and incoming ones.
func DetectSmurfingFanOut(budget *Budget, g *domain.Graph) []candidateRing {
	return detectFan(budget, g, false)
}

func detectFan(budget *Budget, g *domain.Graph, fanIn bool) []candidateRing {
	var out []candidateRing
	for _, h := range g.IDSortedVertices() {
		if budget.Expired() {
			break
		}

		var edgeIdxs []int
		var degree int
		if fanIn {
			edgeIdxs = g.InEdges(h)
			degree = g.InDegree(h)
		} else {
			edgeIdxs = g.OutEdges(h)
			degree = g.OutDegree(h)
		}
		if degree < minFanDegree {
			continue
		}

		first, last := edgeSpan(g, edgeIdxs)
		temporal := last.Sub(first) <= temporalWindow

		members := make([]domain.AccountID, 0, degree+1)
		members = append(members, g.AccountAt(h))
		tags := make(map[domain.AccountID]string, degree+1)

		var hubTag, leafTag string
		var patternType domain.PatternType
		var riskScore int
		if fanIn {
			patternType = domain.PatternSmurfingFanIn
		} else {
			patternType = domain.PatternSmurfingFanOut
		}
		if temporal {
			riskScore = 90
			if fanIn {
				hubTag, leafTag = domain.TagFanInHubTemporal, domain.TagFanInLeafTemporal
			} else {
				hubTag, leafTag = domain.TagFanOutHubTemporal, domain.TagFanOutLeafTemporal
			}
		} else {
			riskScore = 85
			if fanIn {
				hubTag, leafTag = domain.TagFanInHub, domain.TagFanInLeaf
			} else {
				hubTag, leafTag = domain.TagFanOutHub, domain.TagFanOutLeaf
			}
		}
		tags[g.AccountAt(h)] = hubTag

		for _, ei := range edgeIdxs {
			e := g.Edge(ei)
			var leaf int
			if fanIn {
				leaf = e.From
			} else {
				leaf = e.To
			}
			leafID := g.AccountAt(leaf)
			members = append(members, leafID)
			tags[leafID] = leafTag
		}

		out = append(out, candidateRing{
			ring: domain.Ring{
				PatternType:       patternType,
				Members:           members,
				RiskScore:         riskScore,
				TemporalConfirmed: temporal,
			},
			tags: tags,
		})
	}
	return out
}

func edgeSpan(g *domain.Graph, edgeIdxs []int) (first, last time.Time) {
	for i, ei := range edgeIdxs {
		e := g.Edge(ei)
		if i == 0 || e.FirstTS.Before(first) {
			first = e.FirstTS
		}
		if i == 0 || e.LastTS.After(last) {
			last = e.LastTS
		}
	}
	return first, last
}
