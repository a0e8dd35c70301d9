package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkotenko/bankcore/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	Update(ctx context.Context, account *domain.Account) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
}

// TransactionFilter narrows transaction history queries. A nil field
// means no filtering on that dimension. From/To bound CompletedAt as a
// half-open interval [From, To).
type TransactionFilter struct {
	IDs    []string
	Type   *domain.TransactionType
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	MarkCompleted(ctx context.Context, tx Transaction, id string, completedAt time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByFilter(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
}

// EntryFilter narrows statement queries. From/To bound CreatedAt as a
// half-open interval [From, To).
type EntryFilter struct {
	AccountID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error)
	ListByAccount(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error)
	ListTransactionIDs(ctx context.Context, accountID string) ([]string, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// BeneficiaryRepository defines data access for user beneficiary edges.
type BeneficiaryRepository interface {
	Add(ctx context.Context, edge *domain.Beneficiary) error
	Remove(ctx context.Context, userID, beneficiaryUserID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Beneficiary, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique row IDs.
type IDGenerator interface {
	Generate() string
}

// ReferenceGenerator generates transaction reference numbers.
type ReferenceGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient persistence failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// MovementParty is one account's view of a committed movement: the
// post-commit account snapshot and the signed amount applied to it.
type MovementParty struct {
	Account *domain.Account
	Amount  decimal.Decimal
}

// MovementEvent describes a committed money movement for post-commit
// consumers. It carries only committed state and is never used to
// mutate ledger data.
type MovementEvent struct {
	Transaction *domain.Transaction
	Parties     []MovementParty
}

// Notifier schedules best-effort notifications for committed movements.
// Implementations must not block and must never surface failures to the
// caller.
type Notifier interface {
	MovementCompleted(event MovementEvent)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
