package domain

import "time"

// TransactionType classifies a financial event.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypePayment    TransactionType = "PAYMENT"
	TransactionTypeFee        TransactionType = "FEE"
	TransactionTypeInterest   TransactionType = "INTEREST"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionTypeDeposit:    true,
	TransactionTypeWithdrawal: true,
	TransactionTypeTransfer:   true,
	TransactionTypePayment:    true,
	TransactionTypeFee:        true,
	TransactionTypeInterest:   true,
}

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// TransactionStatus represents the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusCanceled   TransactionStatus = "CANCELED"
)

// Transaction represents one logical financial event. A transaction is
// created together with its entries and never edited once completed;
// only Status and CompletedAt transition.
type Transaction struct {
	ID              string
	Type            TransactionType
	Status          TransactionStatus
	ReferenceNumber string
	Description     string
	InitiatedAt     time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

// Complete marks the transaction as completed at the given time.
func (t *Transaction) Complete(at time.Time) {
	t.Status = TransactionStatusCompleted
	t.CompletedAt = &at
}
