package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusClosed   AccountStatus = "CLOSED"
	AccountStatusFrozen   AccountStatus = "FROZEN"
)

// Account represents a bank account holding a running balance.
// Balance is the authoritative sum of all entries posted against the
// account and is only mutated by movement operations, inside the same
// database transaction that writes the entries.
type Account struct {
	ID              string
	OwnerID         string
	AccountNumber   string
	BranchCode      string
	AccountTypeCode string
	Currency        Currency
	Balance         decimal.Decimal
	Status          AccountStatus
	OpenedAt        time.Time
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateWithdrawal checks if amount can be withdrawn from the account.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyEntry returns the balance after posting a signed entry amount
// (positive credits, negative debits).
func (a *Account) ApplyEntry(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// IsOpen reports whether the account accepts movements.
func (a *Account) IsOpen() bool {
	return a.Status == AccountStatusActive
}
