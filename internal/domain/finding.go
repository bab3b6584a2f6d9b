package domain

// AccountFinding is the per-account output of the scorer: the aggregate
// suspicion score and the rings that contributed to it.
type AccountFinding struct {
	AccountID        AccountID `json:"account_id"`
	SuspicionScore   int       `json:"suspicion_score"`
	DetectedPatterns []string  `json:"detected_patterns"`
	RingID           string    `json:"ring_id"`
	AllRingIDs       []string  `json:"all_ring_ids"`
}
