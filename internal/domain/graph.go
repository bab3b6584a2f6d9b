package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Edge aggregates every transaction record between an ordered pair of
// accounts. First/last timestamps, count and the running weight are order
// independent: folding the same multiset of records in any order produces
// the same values for them. TxnIDs keeps the order records were folded in.
type Edge struct {
	From, To int // vertex indices into the owning Graph
	Weight   decimal.Decimal
	Count    int
	FirstTS  time.Time
	LastTS   time.Time
	TxnIDs   []string
}

// Graph is a directed, simple (no parallel edges, no self-loops) weighted
// graph over a compact set of integer vertex indices. It is built once by
// internal/graphbuild and is read-only for the remainder of a pipeline run.
type Graph struct {
	ids   []AccountID
	index map[AccountID]int
	out   [][]int // vertex -> edge indices leaving it
	in    [][]int // vertex -> edge indices entering it
	edges []Edge
}

// NewGraph returns an empty graph ready for construction.
func NewGraph() *Graph {
	return &Graph{index: make(map[AccountID]int)}
}

// EnsureAccount returns the vertex index for id, creating a degree-zero
// vertex if it has not been seen before.
func (g *Graph) EnsureAccount(id AccountID) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = idx
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return idx
}

// IndexOf reports the vertex index for id, if any.
func (g *Graph) IndexOf(id AccountID) (int, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// AccountAt returns the account identifier for a vertex index.
func (g *Graph) AccountAt(v int) AccountID {
	return g.ids[v]
}

// NumVertices returns the number of accounts in the graph, including
// degree-zero ones.
func (g *Graph) NumVertices() int {
	return len(g.ids)
}

// NumEdges returns the number of aggregated directed edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Accounts returns every account id, in insertion (first-seen) order.
func (g *Graph) Accounts() []AccountID {
	out := make([]AccountID, len(g.ids))
	copy(out, g.ids)
	return out
}

// EdgeIndexBetween returns the aggregated edge index for the ordered pair
// (from, to), if one exists.
func (g *Graph) EdgeIndexBetween(from, to int) (int, bool) {
	for _, ei := range g.out[from] {
		if g.edges[ei].To == to {
			return ei, true
		}
	}
	return 0, false
}

// Edge returns a copy of the edge at the given index.
func (g *Graph) Edge(idx int) Edge {
	return g.edges[idx]
}

// AddOrMergeEdge folds one transaction record into the edge between two
// vertex indices, creating it on first use. Callers are responsible for
// rejecting self-loops and non-positive amounts before calling this.
func (g *Graph) AddOrMergeEdge(from, to int, txnID string, amount decimal.Decimal, ts time.Time) {
	if ei, ok := g.EdgeIndexBetween(from, to); ok {
		e := &g.edges[ei]
		e.Weight = e.Weight.Add(amount)
		e.Count++
		if ts.Before(e.FirstTS) {
			e.FirstTS = ts
		}
		if ts.After(e.LastTS) {
			e.LastTS = ts
		}
		e.TxnIDs = append(e.TxnIDs, txnID)
		return
	}

	ei := len(g.edges)
	g.edges = append(g.edges, Edge{
		From:    from,
		To:      to,
		Weight:  amount,
		Count:   1,
		FirstTS: ts,
		LastTS:  ts,
		TxnIDs:  []string{txnID},
	})
	g.out[from] = append(g.out[from], ei)
	g.in[to] = append(g.in[to], ei)
}

// OutEdges returns the edge indices leaving vertex v.
func (g *Graph) OutEdges(v int) []int {
	return g.out[v]
}

// InEdges returns the edge indices entering vertex v.
func (g *Graph) InEdges(v int) []int {
	return g.in[v]
}

// OutDegree returns the number of distinct successors of v.
func (g *Graph) OutDegree(v int) int {
	return len(g.out[v])
}

// InDegree returns the number of distinct predecessors of v.
func (g *Graph) InDegree(v int) int {
	return len(g.in[v])
}

// Successors returns the vertex indices reachable from v by one edge.
func (g *Graph) Successors(v int) []int {
	out := make([]int, len(g.out[v]))
	for i, ei := range g.out[v] {
		out[i] = g.edges[ei].To
	}
	return out
}

// Predecessors returns the vertex indices with an edge into v.
func (g *Graph) Predecessors(v int) []int {
	out := make([]int, len(g.in[v]))
	for i, ei := range g.in[v] {
		out[i] = g.edges[ei].From
	}
	return out
}

// IDSortedVertices returns every vertex index ordered by account identifier
// ascending. Unlike raw index order (which tracks first-seen order in the
// input records), this ordering is independent of record order, so detectors
// that enumerate "all vertices" produce identical output regardless of how
// the input batch was shuffled.
func (g *Graph) IDSortedVertices() []int {
	verts := make([]int, len(g.ids))
	for i := range verts {
		verts[i] = i
	}
	sort.Slice(verts, func(i, j int) bool {
		return g.ids[verts[i]] < g.ids[verts[j]]
	})
	return verts
}

// SortedVertices returns vertex indices ordered by (out-degree + in-degree)
// descending, ties broken by account identifier ascending — the start-node
// selection rule shared by the cycle and shell detectors.
func (g *Graph) SortedVertices() []int {
	verts := make([]int, len(g.ids))
	for i := range verts {
		verts[i] = i
	}
	sort.Slice(verts, func(i, j int) bool {
		vi, vj := verts[i], verts[j]
		di := g.OutDegree(vi) + g.InDegree(vi)
		dj := g.OutDegree(vj) + g.InDegree(vj)
		if di != dj {
			return di > dj
		}
		return g.ids[vi] < g.ids[vj]
	})
	return verts
}
