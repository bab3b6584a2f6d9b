package detect

import "github.com/vanshika/muletrace/backend/internal/domain"

// candidateRing is a detector's raw output before cross-detector dedup and
// renumbering. It carries a per-member tag map alongside the public
// domain.Ring, since a ring's members do not all necessarily earn the same
// account-scoring tag (a fan-in hub and its leaves score differently even
// though they belong to the same ring).
type candidateRing struct {
	ring domain.Ring
	// tags maps each member to the fine-grained pattern tag (domain.Tag*)
	// that member earns from this ring, for the scorer's base-contribution
	// lookup. Every member of ring.Members has an entry.
	tags map[domain.AccountID]string
}

func uniformTags(members []domain.AccountID, tag string) map[domain.AccountID]string {
	m := make(map[domain.AccountID]string, len(members))
	for _, id := range members {
		m[id] = tag
	}
	return m
}
