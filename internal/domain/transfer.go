package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer annotates a transfer-type transaction with its source and
// destination accounts. It is created alongside exactly two
// opposite-signed entries referencing the same transaction.
type Transfer struct {
	ID            string
	TransactionID string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Currency      Currency
	CreatedAt     time.Time
}

// Validate validates a transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
