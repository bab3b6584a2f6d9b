package domain

// PatternType categorises a Ring by the detector that produced it. Distinct
// pattern types feed the account scorer's multi-pattern bonus.
type PatternType string

const (
	PatternCycle3 PatternType = "cycle_length_3"
	PatternCycle4 PatternType = "cycle_length_4"
	PatternCycle5 PatternType = "cycle_length_5"

	PatternSmurfingFanIn  PatternType = "smurfing_fan_in"
	PatternSmurfingFanOut PatternType = "smurfing_fan_out"

	PatternLayeredShell PatternType = "layered_shell_network"
)

// Fine-grained pattern tags — the vocabulary consumed by front-end labelling.
// These are the values that show up in AccountFinding.DetectedPatterns;
// each has an account-level base contribution score defined in
// internal/detect/scorer.go.
//
// Note on naming: the non-hub member of a temporally-confirmed fan cluster
// is spelled "fan_in_leaf_temporal"/"fan_out_leaf_temporal" rather than
// "fan_in_temporal"/"fan_out_temporal", since the leaf spelling is
// unambiguous about which role in the cluster the tag denotes.
const (
	TagCycle3 = "cycle_length_3"
	TagCycle4 = "cycle_length_4"
	TagCycle5 = "cycle_length_5"

	TagFanInHubTemporal   = "fan_in_hub_temporal"
	TagFanOutHubTemporal  = "fan_out_hub_temporal"
	TagFanInHub           = "fan_in_hub"
	TagFanOutHub          = "fan_out_hub"
	TagFanInLeafTemporal  = "fan_in_leaf_temporal"
	TagFanOutLeafTemporal = "fan_out_leaf_temporal"
	TagFanInLeaf          = "fan_in_leaf"
	TagFanOutLeaf         = "fan_out_leaf"

	TagLayeredShell = "layered_shell_network"
)

// Ring is a structurally suspicious account set surviving deduplication.
type Ring struct {
	RingID            string      `json:"ring_id"`
	PatternType       PatternType `json:"pattern_type"`
	Members           []AccountID `json:"members"`
	RiskScore         int         `json:"risk_score"`
	TemporalConfirmed bool        `json:"temporal_confirmed"`

	// discoveryIndex records the ring's position in the deterministic
	// cross-detector emission order (Cycle, Smurfing-fan-in, Smurfing-fan-out,
	// Shell). Dedup and scoring break ties by the order rings are supplied in,
	// which is this same order; the field itself is read only through
	// DiscoveryIndex. It is not part of the public payload.
	discoveryIndex int
}

// DiscoveryIndex returns the position in which this ring was produced,
// before renumbering. Exposed for detector/dedup unit tests.
func (r Ring) DiscoveryIndex() int { return r.discoveryIndex }

// WithDiscoveryIndex returns a copy of r stamped with a discovery index.
func (r Ring) WithDiscoveryIndex(i int) Ring {
	r.discoveryIndex = i
	return r
}
