package usecase

import (
	"context"
	"time"

	"github.com/dkotenko/bankcore/internal/domain"
)

// StatementUseCase serves the read side: account statements and
// transaction histories assembled from the committed entry log.
type StatementUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	entryRepo   EntryRepository
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(accountRepo AccountRepository, txnRepo TransactionRepository, entryRepo EntryRepository) *StatementUseCase {
	return &StatementUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		entryRepo:   entryRepo,
	}
}

// StatementInput represents input for an account statement query.
// StartDate and EndDate are inclusive calendar dates.
type StatementInput struct {
	AccountID string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
}

// GetStatement returns the account's entries, newest first, optionally
// restricted to an inclusive date range on entry creation time.
func (uc *StatementUseCase) GetStatement(ctx context.Context, input StatementInput) ([]*domain.Entry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := normalizePage(input.Limit, input.Skip)

	entries, err := uc.entryRepo.ListByAccount(ctx, EntryFilter{
		AccountID: input.AccountID,
		From:      input.StartDate,
		To:        endOfDayBound(input.EndDate),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*domain.Entry{}
	}

	return entries, nil
}

// HistoryInput represents input for a transaction history query.
type HistoryInput struct {
	AccountID string
	StartDate *time.Time
	EndDate   *time.Time
	Type      *domain.TransactionType
	Skip      int
	Limit     int
}

// GetTransactionHistory returns the transactions an account
// participated in, completed-at descending with not-yet-completed
// transactions last. An account has a transaction if and only if it has
// at least one entry in it.
func (uc *StatementUseCase) GetTransactionHistory(ctx context.Context, input HistoryInput) ([]*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	ids, err := uc.entryRepo.ListTransactionIDs(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*domain.Transaction{}, nil
	}

	limit, offset := normalizePage(input.Limit, input.Skip)

	txns, err := uc.txnRepo.ListByFilter(ctx, TransactionFilter{
		IDs:    ids,
		Type:   input.Type,
		From:   input.StartDate,
		To:     endOfDayBound(input.EndDate),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	if txns == nil {
		txns = []*domain.Transaction{}
	}

	return txns, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *StatementUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// GetTransactionEntries returns all entries of a transaction.
func (uc *StatementUseCase) GetTransactionEntries(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	if _, err := uc.txnRepo.GetByID(ctx, transactionID); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*domain.Entry{}
	}

	return entries, nil
}

// normalizePage applies the default and cap to a limit and clamps a
// negative skip.
func normalizePage(limit, skip int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if skip < 0 {
		skip = 0
	}

	return limit, skip
}

// endOfDayBound converts an inclusive end date into the exclusive
// upper bound of its calendar day.
func endOfDayBound(date *time.Time) *time.Time {
	if date == nil {
		return nil
	}

	bound := date.AddDate(0, 0, 1)

	return &bound
}
