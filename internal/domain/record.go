package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountID identifies a party to a transfer. Accounts are opaque strings;
// the pipeline never creates or destroys one except by reference.
type AccountID string

// TransactionRecord is a single normalized money-transfer record produced by
// the Record Normaliser from raw input rows.
type TransactionRecord struct {
	TransactionID string
	Sender        AccountID
	Receiver      AccountID
	Amount        decimal.Decimal
	Timestamp     time.Time
}
