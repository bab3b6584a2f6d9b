// Package datagen produces synthetic transaction batches with embedded
// fraud rings for exercising the detection pipeline end to end: a seeded
// *rand.Rand, a config struct with sane defaults, and a record slice a
// separate writer serializes.
package datagen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

// Generator produces a synthetic transaction batch.
type Generator struct {
	cfg  Config
	rand *rand.Rand
	next int
}

// New returns a configured Generator. Unset NumAccounts,
// NumNormalTransactions, FanDegree, StartTime and NormalTransactionSpan fall
// back to DefaultConfig's values, and an unset Seed is derived from the wall
// clock. The ring, hub and chain counts are used as given, so zero embeds none.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumAccounts <= 0 {
		cfg.NumAccounts = def.NumAccounts
	}
	if cfg.NumNormalTransactions <= 0 {
		cfg.NumNormalTransactions = def.NumNormalTransactions
	}
	if cfg.FanDegree <= 0 {
		cfg.FanDegree = def.FanDegree
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = def.StartTime
	}
	if cfg.NormalTransactionSpan <= 0 {
		cfg.NormalTransactionSpan = def.NormalTransactionSpan
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{cfg: cfg, rand: rand.New(rand.NewSource(cfg.Seed))}
}

// Generate returns the full synthetic batch: embedded rings first, then
// ordinary peer-to-peer traffic among a shared account pool.
func (g *Generator) Generate() []domain.TransactionRecord {
	var records []domain.TransactionRecord

	pool := make([]domain.AccountID, g.cfg.NumAccounts)
	for i := range pool {
		pool[i] = g.account()
	}

	for i := 0; i < g.cfg.NumCycleRings; i++ {
		records = append(records, g.cycleRing(3+g.rand.Intn(3))...)
	}
	for i := 0; i < g.cfg.NumFanInHubs; i++ {
		records = append(records, g.fanCluster(true)...)
	}
	for i := 0; i < g.cfg.NumFanOutHubs; i++ {
		records = append(records, g.fanCluster(false)...)
	}
	for i := 0; i < g.cfg.NumShellChains; i++ {
		records = append(records, g.shellChain(3+g.rand.Intn(2))...)
	}

	for i := 0; i < g.cfg.NumNormalTransactions; i++ {
		from := pool[g.rand.Intn(len(pool))]
		to := pool[g.rand.Intn(len(pool))]
		if from == to {
			continue
		}
		records = append(records, domain.TransactionRecord{
			TransactionID: g.txnID(),
			Sender:        from,
			Receiver:      to,
			Amount:        g.amount(10, 5000),
			Timestamp:     g.randomTime(g.cfg.NormalTransactionSpan),
		})
	}

	return records
}

func (g *Generator) account() domain.AccountID {
	return domain.AccountID(fmt.Sprintf("ACCT-%06d", g.rand.Intn(1_000_000)))
}

func (g *Generator) txnID() string {
	g.next++
	return fmt.Sprintf("TXN-%08d", g.next)
}

func (g *Generator) amount(min, max int) decimal.Decimal {
	cents := min*100 + g.rand.Intn((max-min)*100)
	return decimal.New(int64(cents), -2)
}

func (g *Generator) randomTime(span time.Duration) time.Time {
	offset := time.Duration(g.rand.Int63n(int64(span)))
	return g.cfg.StartTime.Add(offset)
}

// cycleRing emits a tight directed cycle of the given length, timestamps
// increasing hop by hop so the ring also satisfies temporal ordering.
func (g *Generator) cycleRing(length int) []domain.TransactionRecord {
	accounts := make([]domain.AccountID, length)
	for i := range accounts {
		accounts[i] = g.account()
	}
	base := g.randomTime(g.cfg.NormalTransactionSpan)

	records := make([]domain.TransactionRecord, length)
	for i := range accounts {
		from := accounts[i]
		to := accounts[(i+1)%length]
		records[i] = domain.TransactionRecord{
			TransactionID: g.txnID(),
			Sender:        from,
			Receiver:      to,
			Amount:        g.amount(500, 5000),
			Timestamp:     base.Add(time.Duration(i) * time.Hour),
		}
	}
	return records
}

// fanCluster emits a hub receiving from (fanIn) or sending to (!fanIn)
// FanDegree distinct accounts, all within a few hours so the cluster is
// temporally confirmed.
func (g *Generator) fanCluster(fanIn bool) []domain.TransactionRecord {
	hub := g.account()
	base := g.randomTime(g.cfg.NormalTransactionSpan)

	records := make([]domain.TransactionRecord, g.cfg.FanDegree)
	for i := 0; i < g.cfg.FanDegree; i++ {
		leaf := g.account()
		ts := base.Add(time.Duration(i) * time.Minute * 20)
		rec := domain.TransactionRecord{
			TransactionID: g.txnID(),
			Amount:        g.amount(100, 900),
			Timestamp:     ts,
		}
		if fanIn {
			rec.Sender, rec.Receiver = leaf, hub
		} else {
			rec.Sender, rec.Receiver = hub, leaf
		}
		records[i] = rec
	}
	return records
}

// shellChain emits a layered pass-through: an origin, hops-1 interior
// accounts each with exactly one predecessor, and a destination.
func (g *Generator) shellChain(hops int) []domain.TransactionRecord {
	accounts := make([]domain.AccountID, hops+1)
	for i := range accounts {
		accounts[i] = g.account()
	}
	base := g.randomTime(g.cfg.NormalTransactionSpan)

	records := make([]domain.TransactionRecord, hops)
	amount := g.amount(1000, 5000)
	for i := 0; i < hops; i++ {
		records[i] = domain.TransactionRecord{
			TransactionID: g.txnID(),
			Sender:        accounts[i],
			Receiver:      accounts[i+1],
			Amount:        amount,
			Timestamp:     base.Add(time.Duration(i) * time.Hour),
		}
	}
	return records
}
