package detect

import (
	"sort"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

// tagBaseScore is the account-level base contribution each fine-grained
// pattern tag carries. It is distinct from a ring's own RiskScore: a
// length-5 cycle ring
// scores 90, but a length-5 cycle *membership* only contributes 85 to an
// account's suspicion score — the two tables serve different questions
// (how dangerous is this ring vs. how much does belonging to it implicate
// this account).
var tagBaseScore = map[string]int{
	domain.TagCycle3: 95,
	domain.TagCycle4: 90,
	domain.TagCycle5: 85,

	domain.TagFanInHubTemporal:   95,
	domain.TagFanOutHubTemporal:  95,
	domain.TagFanInHub:           85,
	domain.TagFanOutHub:          85,
	domain.TagFanInLeafTemporal:  80,
	domain.TagFanOutLeafTemporal: 80,
	domain.TagFanInLeaf:          70,
	domain.TagFanOutLeaf:         70,

	domain.TagLayeredShell: 75,
}

// tagOccurrence records a distinct tag's base score and the order in which
// the account first earned it, so DetectedPatterns can be sorted by
// descending contribution with ties broken by discovery order instead of
// alphabetically.
type tagOccurrence struct {
	tag  string
	base int
}

type accountAccum struct {
	maxBase       int
	bestRingID    string
	tagsSeen      map[string]bool
	tagOrder      []tagOccurrence
	patternTypes  map[domain.PatternType]bool
	allRingIDs    []string
	allRingIDSeen map[string]bool
}

// Score computes the per-account suspicion findings from the deduplicated
// ring set: each account's score is the highest base contribution among its
// ring memberships, plus a bonus for participating in more than one
// distinct pattern type, capped at 100. Accounts touched by no ring are
// omitted entirely — only accounts implicated by at least one structural
// finding are reported. Results are sorted by score descending, ties broken
// by account identifier ascending, for a stable API response ordering.
func Score(rings []domain.Ring, tagsByRing map[string]map[domain.AccountID]string) []domain.AccountFinding {
	accum := make(map[domain.AccountID]*accountAccum)

	for _, r := range rings {
		tags := tagsByRing[r.RingID]
		for _, member := range r.Members {
			a, ok := accum[member]
			if !ok {
				a = &accountAccum{
					tagsSeen:      make(map[string]bool),
					patternTypes:  make(map[domain.PatternType]bool),
					allRingIDSeen: make(map[string]bool),
				}
				accum[member] = a
			}

			tag := tags[member]
			if !a.tagsSeen[tag] {
				a.tagsSeen[tag] = true
				a.tagOrder = append(a.tagOrder, tagOccurrence{tag: tag, base: tagBaseScore[tag]})
			}
			a.patternTypes[r.PatternType] = true
			if !a.allRingIDSeen[r.RingID] {
				a.allRingIDSeen[r.RingID] = true
				a.allRingIDs = append(a.allRingIDs, r.RingID)
			}

			base := tagBaseScore[tag]
			if base > a.maxBase || a.bestRingID == "" {
				a.maxBase = base
				a.bestRingID = r.RingID
			}
		}
	}

	findings := make([]domain.AccountFinding, 0, len(accum))
	for id, a := range accum {
		bonus := 0
		if d := len(a.patternTypes); d > 1 {
			bonus = (d - 1) * 5
			if bonus > 10 {
				bonus = 10
			}
		}
		score := a.maxBase + bonus
		if score > 100 {
			score = 100
		}

		tagOrder := append([]tagOccurrence(nil), a.tagOrder...)
		sort.SliceStable(tagOrder, func(i, j int) bool {
			return tagOrder[i].base > tagOrder[j].base
		})
		patterns := make([]string, len(tagOrder))
		for i, occ := range tagOrder {
			patterns[i] = occ.tag
		}

		ringIDs := append([]string(nil), a.allRingIDs...)
		sort.Strings(ringIDs)

		findings = append(findings, domain.AccountFinding{
			AccountID:        id,
			SuspicionScore:   score,
			DetectedPatterns: patterns,
			RingID:           a.bestRingID,
			AllRingIDs:       ringIDs,
		})
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].SuspicionScore != findings[j].SuspicionScore {
			return findings[i].SuspicionScore > findings[j].SuspicionScore
		}
		return findings[i].AccountID < findings[j].AccountID
	})
	return findings
}
