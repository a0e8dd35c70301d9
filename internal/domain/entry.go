package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the append-only ledger record of a single money movement
// against one account. Positive amounts are credits, negative amounts
// are debits. Entries are never mutated or deleted after creation, and
// the entries of one transaction sum to zero.
type Entry struct {
	ID            string
	AccountID     string
	TransactionID string
	Amount        decimal.Decimal
	Currency      Currency
	CreatedAt     time.Time
}
