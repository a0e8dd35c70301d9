package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/infrastructure/metrics"
)

// AccountUseCase handles account lifecycle operations. Balances are
// never set here; accounts open at zero and only movements change them.
type AccountUseCase struct {
	accountRepo AccountRepository
	userRepo    UserRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. m may be nil.
func NewAccountUseCase(accountRepo AccountRepository, userRepo UserRepository, idGen IDGenerator, m *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// CreateAccountInput represents input for opening an account.
type CreateAccountInput struct {
	OwnerID         string
	AccountNumber   string
	BranchCode      string
	AccountTypeCode string
	Currency        domain.Currency
}

// CreateAccount opens a new account for an existing user.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	number := input.AccountNumber
	if number == "" {
		number = "ACC" + uc.idGen.Generate()
	}

	account := &domain.Account{
		ID:              uc.idGen.Generate(),
		OwnerID:         input.OwnerID,
		AccountNumber:   number,
		BranchCode:      input.BranchCode,
		AccountTypeCode: input.AccountTypeCode,
		Currency:        input.Currency,
		Balance:         decimal.Zero,
		Status:          domain.AccountStatusActive,
		OpenedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Skip  int
	Limit int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := normalizePage(input.Limit, input.Skip)

	return uc.accountRepo.List(ctx, limit, offset)
}

// ListUserAccounts lists all accounts owned by a user.
func (uc *AccountUseCase) ListUserAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	if _, err := uc.userRepo.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	return uc.accountRepo.ListByOwner(ctx, ownerID)
}

// UpdateAccountInput carries a partial account update. Only fields that
// are explicitly present (non-nil) are applied; balance and currency
// are never updatable through this path.
type UpdateAccountInput struct {
	BranchCode      *string
	AccountTypeCode *string
	Status          *domain.AccountStatus
}

// UpdateAccount applies a partial update to an account. Setting status
// to CLOSED stamps ClosedAt.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if input.BranchCode != nil {
		account.BranchCode = *input.BranchCode
	}

	if input.AccountTypeCode != nil {
		account.AccountTypeCode = *input.AccountTypeCode
	}

	if input.Status != nil {
		account.Status = *input.Status
		if *input.Status == domain.AccountStatusClosed && account.ClosedAt == nil {
			account.ClosedAt = &now
		}
	}

	account.UpdatedAt = now

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}
