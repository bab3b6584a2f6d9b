// Package ingest implements the Record Normaliser: it turns a raw CSV
// transaction batch into the deduplicated, schema-validated record stream
// the rest of the pipeline consumes.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

// InputError marks a malformed-input failure, as distinct from an internal
// one. Handlers surface these as 4xx with the message as the "detail" field.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err represents malformed input rather than an
// internal failure.
func IsInputError(err error) bool {
	_, ok := err.(*InputError)
	return ok
}

var requiredColumns = []string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Stats reports what the normaliser dropped, for inclusion in operator logs.
type Stats struct {
	RowsRead        int
	DuplicatesDrop  int
	SelfLoopsDrop   int
	NonPositiveDrop int
	Accepted        int
}

// Normalize reads a CSV batch (any column order, header required) and
// returns the deduplicated, validated transaction record stream.
//
// Duplicate transaction_id values are silently deduplicated, keeping the
// first occurrence in file order. Self-loops and non-positive amounts are
// dropped rather than failing the whole batch — a handful of malformed rows
// in an otherwise valid CSV export shouldn't block analysis of the rest.
func Normalize(r io.Reader) ([]domain.TransactionRecord, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, Stats{}, inputErrorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, Stats{}, inputErrorf("CSV parse error: %v", err)
	}

	col, err := resolveColumns(header)
	if err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	seen := make(map[string]struct{})
	records := make([]domain.TransactionRecord, 0, 1024)

	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Stats{}, inputErrorf("CSV parse error at row %d: %v", rowNum, err)
		}
		rowNum++
		stats.RowsRead++

		txnID := strings.TrimSpace(row[col.txnID])
		if txnID == "" {
			return nil, Stats{}, inputErrorf("row %d: missing transaction_id", rowNum)
		}
		if _, dup := seen[txnID]; dup {
			stats.DuplicatesDrop++
			continue
		}
		seen[txnID] = struct{}{}

		sender := domain.AccountID(strings.TrimSpace(row[col.sender]))
		receiver := domain.AccountID(strings.TrimSpace(row[col.receiver]))
		if sender == "" || receiver == "" {
			return nil, Stats{}, inputErrorf("row %d: sender_id/receiver_id required", rowNum)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(row[col.amount]))
		if err != nil {
			return nil, Stats{}, inputErrorf("row %d: invalid amount %q", rowNum, row[col.amount])
		}

		ts, err := parseTimestamp(strings.TrimSpace(row[col.timestamp]))
		if err != nil {
			return nil, Stats{}, inputErrorf("row %d: invalid timestamp %q", rowNum, row[col.timestamp])
		}

		if sender == receiver {
			stats.SelfLoopsDrop++
			continue
		}
		if !amount.IsPositive() {
			stats.NonPositiveDrop++
			continue
		}

		records = append(records, domain.TransactionRecord{
			TransactionID: txnID,
			Sender:        sender,
			Receiver:      receiver,
			Amount:        amount,
			Timestamp:     ts,
		})
		stats.Accepted++
	}

	return records, stats, nil
}

type columns struct {
	txnID, sender, receiver, amount, timestamp int
}

func resolveColumns(header []string) (columns, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := positions[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columns{}, inputErrorf("missing columns: %s", strings.Join(missing, ", "))
	}

	return columns{
		txnID:     positions["transaction_id"],
		sender:    positions["sender_id"],
		receiver:  positions["receiver_id"],
		amount:    positions["amount"],
		timestamp: positions["timestamp"],
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
