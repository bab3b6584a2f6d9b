// Package casestore persists completed analyses as an append-only audit
// trail. It is optional: a pipeline run with no configured store still
// returns its full result to the caller, since nothing in the detection
// pipeline itself depends on persisted state — an analysis run carries no
// memory of any other run. What this package adds is a record of what was
// found, for later investigation — not pipeline state.
package casestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/muletrace/backend/internal/domain"
	"github.com/vanshika/muletrace/backend/internal/graph"
)

// Case is one persisted analysis run.
type Case struct {
	ID        string
	CreatedAt time.Time
	Summary   domain.Summary
	Rings     []domain.Ring
	Findings  []domain.AccountFinding
}

// Store appends completed analyses to the underlying graph client and can
// look them back up by ID. A nil Client makes every method a no-op, so
// callers do not need to special-case "persistence disabled".
type Store struct {
	client graph.Client
}

// New wraps a graph.Client (nil disables persistence).
func New(client graph.Client) *Store {
	return &Store{client: client}
}

// Enabled reports whether a backing client is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Record writes one completed analysis as a single Case node with the ring
// and finding payloads inlined as JSON properties. Cases are never updated
// or deleted through this package — it is a write-once audit log, not a
// queryable case-management system.
func (s *Store) Record(ctx context.Context, summary domain.Summary, rings []domain.Ring, findings []domain.AccountFinding) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	ringsJSON, err := json.Marshal(rings)
	if err != nil {
		return "", fmt.Errorf("casestore: marshal rings: %w", err)
	}
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return "", fmt.Errorf("casestore: marshal findings: %w", err)
	}

	id := uuid.New().String()
	params := map[string]any{
		"id":                id,
		"created_at":        time.Now().UTC().Format(time.RFC3339),
		"total_accounts":    summary.TotalAccountsAnalyzed,
		"suspicious_flagged": summary.SuspiciousAccountsFlagged,
		"rings_detected":    summary.FraudRingsDetected,
		"processing_seconds": summary.ProcessingTimeSeconds,
		"shell_skipped":     summary.ShellDetectionSkipped,
		"rings_json":        string(ringsJSON),
		"findings_json":     string(findingsJSON),
	}

	const cypher = `
CREATE (c:Case {
  id: $id,
  created_at: datetime($created_at),
  total_accounts: $total_accounts,
  suspicious_flagged: $suspicious_flagged,
  rings_detected: $rings_detected,
  processing_seconds: $processing_seconds,
  shell_skipped: $shell_skipped,
  rings_json: $rings_json,
  findings_json: $findings_json
})`

	if _, err := s.client.ExecuteWrite(ctx, cypher, params); err != nil {
		return "", fmt.Errorf("casestore: write case: %w", err)
	}
	return id, nil
}

// Get retrieves a previously recorded case by ID.
func (s *Store) Get(ctx context.Context, id string) (Case, bool, error) {
	if !s.Enabled() {
		return Case{}, false, nil
	}

	const cypher = `MATCH (c:Case {id: $id}) RETURN c.id AS id, c.created_at AS created_at,
c.total_accounts AS total_accounts, c.suspicious_flagged AS suspicious_flagged,
c.rings_detected AS rings_detected, c.processing_seconds AS processing_seconds,
c.shell_skipped AS shell_skipped, c.rings_json AS rings_json, c.findings_json AS findings_json`

	result, err := s.client.ExecuteRead(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return Case{}, false, fmt.Errorf("casestore: read case: %w", err)
	}
	if len(result.Records) == 0 {
		return Case{}, false, nil
	}

	rec := result.Records[0]
	c := Case{ID: id}

	if v, ok := rec["rings_json"].(string); ok {
		if err := json.Unmarshal([]byte(v), &c.Rings); err != nil {
			return Case{}, false, fmt.Errorf("casestore: decode rings: %w", err)
		}
	}
	if v, ok := rec["findings_json"].(string); ok {
		if err := json.Unmarshal([]byte(v), &c.Findings); err != nil {
			return Case{}, false, fmt.Errorf("casestore: decode findings: %w", err)
		}
	}
	if v, ok := rec["total_accounts"].(int64); ok {
		c.Summary.TotalAccountsAnalyzed = int(v)
	}
	if v, ok := rec["suspicious_flagged"].(int64); ok {
		c.Summary.SuspiciousAccountsFlagged = int(v)
	}
	if v, ok := rec["rings_detected"].(int64); ok {
		c.Summary.FraudRingsDetected = int(v)
	}
	if v, ok := rec["processing_seconds"].(float64); ok {
		c.Summary.ProcessingTimeSeconds = v
	}
	if v, ok := rec["shell_skipped"].(bool); ok {
		c.Summary.ShellDetectionSkipped = v
	}

	return c, true, nil
}
