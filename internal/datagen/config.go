package datagen

import "time"

// Config drives the synthetic transaction batch generator: how many
// accounts and how many of each fraud pattern to embed among ordinary
// peer-to-peer traffic.
type Config struct {
	NumAccounts            int
	NumNormalTransactions  int
	NumCycleRings          int
	NumFanInHubs           int
	NumFanOutHubs          int
	NumShellChains         int
	FanDegree              int // senders/receivers per smurfing hub
	Seed                   int64
	StartTime              time.Time
	NormalTransactionSpan  time.Duration
}

// DefaultConfig returns a 2000-account pool with 20000 ordinary transactions
// plus embedded cycle rings, fan hubs and shell chains. The embedded rings
// use accounts of their own on top of the pool, so the default batch holds
// more than 2000 accounts and the shell detector skips it; at this density
// the ordinary traffic also forms many cycles and fan clusters of its own.
func DefaultConfig() Config {
	return Config{
		NumAccounts:           2000,
		NumNormalTransactions: 20000,
		NumCycleRings:         15,
		NumFanInHubs:          5,
		NumFanOutHubs:         5,
		NumShellChains:        10,
		FanDegree:             12,
		Seed:                  42,
		StartTime:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		NormalTransactionSpan: 90 * 24 * time.Hour,
	}
}
