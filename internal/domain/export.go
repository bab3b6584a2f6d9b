package domain

import "encoding/json"

// ExportNode is one node in the bounded visualisation payload. SuspicionScore
// is only meaningful when HasScore is set — an account with no finding has
// no score to report, so it marshals as an omitted field rather than 0 in
// that case.
type ExportNode struct {
	ID             AccountID
	Suspicious     bool
	SuspicionScore int
	HasScore       bool
}

// MarshalJSON emits suspicion_score only when HasScore is true.
func (n ExportNode) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID             AccountID `json:"id"`
		Suspicious     bool      `json:"suspicious"`
		SuspicionScore *int      `json:"suspicion_score,omitempty"`
	}
	w := wire{ID: n.ID, Suspicious: n.Suspicious}
	if n.HasScore {
		w.SuspicionScore = &n.SuspicionScore
	}
	return json.Marshal(w)
}

// ExportEdge is one directed edge in the bounded visualisation payload.
// Parallel edges are already aggregated upstream; this carries only the
// endpoints, matching the front end's minimal rendering contract.
type ExportEdge struct {
	Source AccountID `json:"source"`
	Target AccountID `json:"target"`
}

// GraphExport is the bounded payload handed to the visualisation collaborator.
type GraphExport struct {
	Nodes    []ExportNode `json:"nodes"`
	Edges    []ExportEdge `json:"edges"`
	Capped   bool         `json:"capped"`
	CapLimit int          `json:"cap_limit"`
}
