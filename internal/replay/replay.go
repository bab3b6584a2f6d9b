// Package replay bulk-persists previously produced analysis results into
// the case store, using a bounded worker pool to backfill from a batch of
// archived results rather than replaying live traffic.
package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vanshika/muletrace/backend/internal/casestore"
	"github.com/vanshika/muletrace/backend/internal/domain"
)

// analysisFile mirrors the JSON body written by POST /analyze and
// cmd/analyze, so archived results from either can be replayed.
type analysisFile struct {
	Rings    []domain.Ring           `json:"fraud_rings"`
	Findings []domain.AccountFinding `json:"suspicious_accounts"`
	Summary  domain.Summary          `json:"summary"`
}

// TaskError accumulates every failure hit during a bulk replay, rather
// than aborting at the first one.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d replay failures:", len(e.Errors))
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkPersistor replays a directory of archived analysis-result JSON files
// into a case store using a bounded worker pool.
type BulkPersistor struct {
	store   *casestore.Store
	workers int
}

// NewBulkPersistor returns a BulkPersistor writing through store.
func NewBulkPersistor(store *casestore.Store, workers int) *BulkPersistor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkPersistor{store: store, workers: workers}
}

// Dir replays every *.json file directly inside dir (non-recursive) and
// returns the number successfully persisted plus an accumulated error for
// any that failed.
func (p *BulkPersistor) Dir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("replay: read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return 0, nil
	}

	pathCh := make(chan string)
	errCh := make(chan error, len(paths))
	var succeeded int
	var mu sync.Mutex
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for path := range pathCh {
			if err := p.one(ctx, path); err != nil {
				select {
				case errCh <- fmt.Errorf("%s: %w", path, err):
				case <-ctx.Done():
					return
				}
				continue
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}
	}

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for _, path := range paths {
		select {
		case pathCh <- path:
		case <-ctx.Done():
			break Loop
		}
	}
	close(pathCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return succeeded, err
		}
		taskErr.append(err)
	}
	return succeeded, taskErr.asError()
}

func (p *BulkPersistor) one(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var parsed analysisFile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	_, err = p.store.Record(ctx, parsed.Summary, parsed.Rings, parsed.Findings)
	return err
}
