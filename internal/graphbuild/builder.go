// Package graphbuild folds a normalized transaction record stream into the
// directed weighted graph the detectors traverse.
package graphbuild

import (
	"github.com/vanshika/muletrace/backend/internal/domain"
)

// Build constructs a domain.Graph from a normalized record slice. Equal
// input multisets produce the same accounts, edges and edge aggregates
// (weight sum, count, min/max timestamp) regardless of record order; vertex
// indices and the order of each edge's TxnIDs follow record order.
//
// Self-loops and non-positive amounts are rejected defensively even though
// internal/ingest already filters them — the builder does not trust its
// caller. Reaching this code with such a record is a programmer error, not
// user input, so it panics rather than returning an error.
func Build(records []domain.TransactionRecord) *domain.Graph {
	g := domain.NewGraph()

	for _, rec := range records {
		if rec.Sender == rec.Receiver {
			panic("graphbuild: self-loop record reached the builder")
		}
		if !rec.Amount.IsPositive() {
			panic("graphbuild: non-positive amount record reached the builder")
		}

		from := g.EnsureAccount(rec.Sender)
		to := g.EnsureAccount(rec.Receiver)
		g.AddOrMergeEdge(from, to, rec.TransactionID, rec.Amount, rec.Timestamp)
	}

	return g
}
