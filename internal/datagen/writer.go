package datagen

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/vanshika/muletrace/backend/internal/domain"
)

// WriteCSV serializes records in the transaction_id,sender_id,receiver_id,
// amount,timestamp schema internal/ingest.Normalize expects.
func WriteCSV(w io.Writer, records []domain.TransactionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.TransactionID,
			string(r.Sender),
			string(r.Receiver),
			r.Amount.String(),
			r.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
