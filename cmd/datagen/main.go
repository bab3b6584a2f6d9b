// Command datagen writes a synthetic transaction CSV batch with embedded
// fraud rings, for exercising the detection pipeline without a real feed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/muletrace/backend/internal/datagen"
)

func main() {
	cfg := datagen.DefaultConfig()
	var (
		accounts    = flag.Int("accounts", cfg.NumAccounts, "size of the account pool")
		normalTxns  = flag.Int("normal-transactions", cfg.NumNormalTransactions, "number of ordinary peer-to-peer transactions")
		cycleRings  = flag.Int("cycle-rings", cfg.NumCycleRings, "number of embedded circular-flow rings")
		fanInHubs   = flag.Int("fan-in-hubs", cfg.NumFanInHubs, "number of embedded fan-in smurfing hubs")
		fanOutHubs  = flag.Int("fan-out-hubs", cfg.NumFanOutHubs, "number of embedded fan-out smurfing hubs")
		shellChains = flag.Int("shell-chains", cfg.NumShellChains, "number of embedded layered shell chains")
		fanDegree   = flag.Int("fan-degree", cfg.FanDegree, "leaves per smurfing hub")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output      = flag.String("output", "batch.csv", "path to write the generated CSV batch")
	)
	flag.Parse()

	genCfg := datagen.Config{
		NumAccounts:           *accounts,
		NumNormalTransactions: *normalTxns,
		NumCycleRings:         *cycleRings,
		NumFanInHubs:          *fanInHubs,
		NumFanOutHubs:         *fanOutHubs,
		NumShellChains:        *shellChains,
		FanDegree:             *fanDegree,
		Seed:                  *seed,
		StartTime:             cfg.StartTime,
		NormalTransactionSpan: cfg.NormalTransactionSpan,
	}

	gen := datagen.New(genCfg)
	records := gen.Generate()

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := datagen.WriteCSV(file, records); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d transaction records into %s in %s\n",
		len(records), *output, time.Now().Format(time.RFC3339))
}
