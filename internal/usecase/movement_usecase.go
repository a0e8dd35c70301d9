package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/infrastructure/metrics"
)

// MovementUseCase executes the money movement operations: deposit,
// withdrawal and transfer. Each operation constructs its transaction,
// entries and balance mutations inside one database transaction so that
// either all of it commits or none of it does. Notification dispatch
// happens strictly after commit and never affects the result.
type MovementUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	txnRepo      TransactionRepository
	entryRepo    EntryRepository
	transferRepo TransferRepository
	notifier     Notifier
	retrier      Retrier
	idGen        IDGenerator
	refGen       ReferenceGenerator
	metrics      *metrics.Metrics
}

// NewMovementUseCase creates a new MovementUseCase. notifier, retrier
// and m may be nil.
func NewMovementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	entryRepo EntryRepository,
	transferRepo TransferRepository,
	notifier Notifier,
	retrier Retrier,
	idGen IDGenerator,
	refGen ReferenceGenerator,
	m *metrics.Metrics,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		notifier:     notifier,
		retrier:      retrier,
		idGen:        idGen,
		refGen:       refGen,
		metrics:      m,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// Deposit credits an account and records the matching ledger rows.
func (uc *MovementUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	start := time.Now()

	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.recordRejected(domain.TransactionTypeDeposit, err)
		return nil, err
	}

	var (
		txn   *domain.Transaction
		event MovementEvent
	)

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		if !account.IsOpen() {
			return domain.ErrAccountNotActive
		}

		now := time.Now().UTC()
		description := input.Description
		if description == "" {
			description = fmt.Sprintf("Deposit to account %s", account.AccountNumber)
		}

		txn = uc.newTransaction(domain.TransactionTypeDeposit, description, now)
		txn.Complete(now)

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		if err := uc.postEntry(ctx, tx, account, txn.ID, input.Amount, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		event = MovementEvent{
			Transaction: txn,
			Parties:     []MovementParty{{Account: account, Amount: input.Amount}},
		}

		return nil
	})
	if err != nil {
		uc.recordRejected(domain.TransactionTypeDeposit, err)
		return nil, err
	}

	uc.recordCompleted(domain.TransactionTypeDeposit, input.Amount, start)
	uc.notify(event)

	return txn, nil
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// Withdraw debits an account and records the matching ledger rows.
// Rejected with domain.ErrInsufficientFunds when the balance does not
// cover the amount; rejections leave no trace in the ledger.
func (uc *MovementUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	start := time.Now()

	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.recordRejected(domain.TransactionTypeWithdrawal, err)
		return nil, err
	}

	var (
		txn   *domain.Transaction
		event MovementEvent
	)

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		if !account.IsOpen() {
			return domain.ErrAccountNotActive
		}

		if err := account.ValidateWithdrawal(input.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()
		description := input.Description
		if description == "" {
			description = fmt.Sprintf("Withdrawal from account %s", account.AccountNumber)
		}

		txn = uc.newTransaction(domain.TransactionTypeWithdrawal, description, now)
		txn.Complete(now)

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		if err := uc.postEntry(ctx, tx, account, txn.ID, input.Amount.Neg(), now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		event = MovementEvent{
			Transaction: txn,
			Parties:     []MovementParty{{Account: account, Amount: input.Amount.Neg()}},
		}

		return nil
	})
	if err != nil {
		uc.recordRejected(domain.TransactionTypeWithdrawal, err)
		return nil, err
	}

	uc.recordCompleted(domain.TransactionTypeWithdrawal, input.Amount, start)
	uc.notify(event)

	return txn, nil
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
}

// Transfer moves funds between two same-currency accounts. One
// transaction, one transfer record, and two opposite-signed entries are
// written together with both balance mutations; no debit ever persists
// without its matching credit.
func (uc *MovementUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	start := time.Now()

	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.recordRejected(domain.TransactionTypeTransfer, err)
		return nil, err
	}

	if input.FromAccountID == input.ToAccountID {
		uc.recordRejected(domain.TransactionTypeTransfer, domain.ErrSameAccount)
		return nil, domain.ErrSameAccount
	}

	// Lock both accounts in sorted order (deadlock prevention).
	accountIDs := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(accountIDs)

	var (
		transfer *domain.Transfer
		event    MovementEvent
	)

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, accountIDs)
		if err != nil {
			return err
		}

		accountMap := make(map[string]*domain.Account, len(accounts))
		for _, a := range accounts {
			accountMap[a.ID] = a
		}

		from := accountMap[input.FromAccountID]
		to := accountMap[input.ToAccountID]

		if from == nil {
			return domain.ErrSourceAccountNotFound
		}
		if to == nil {
			return domain.ErrDestinationAccountNotFound
		}

		if !from.IsOpen() || !to.IsOpen() {
			return domain.ErrAccountNotActive
		}

		if from.Currency != to.Currency {
			return domain.ErrCurrencyMismatch
		}

		if err := from.ValidateWithdrawal(input.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()
		description := input.Description
		if description == "" {
			description = fmt.Sprintf("Transfer from %s to %s", from.AccountNumber, to.AccountNumber)
		}

		txn := uc.newTransaction(domain.TransactionTypeTransfer, description, now)

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		transfer = &domain.Transfer{
			ID:            uc.idGen.Generate(),
			TransactionID: txn.ID,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        input.Amount,
			Currency:      from.Currency,
			CreatedAt:     now,
		}

		if err := transfer.Validate(); err != nil {
			return err
		}

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		if err := uc.postEntry(ctx, tx, from, txn.ID, input.Amount.Neg(), now); err != nil {
			return err
		}

		if err := uc.postEntry(ctx, tx, to, txn.ID, input.Amount, now); err != nil {
			return err
		}

		// Settlement is synchronous: the transaction reaches COMPLETED
		// inside the same unit it was initiated in.
		txn.Complete(now)
		if err := uc.txnRepo.MarkCompleted(ctx, tx, txn.ID, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		event = MovementEvent{
			Transaction: txn,
			Parties: []MovementParty{
				{Account: from, Amount: input.Amount.Neg()},
				{Account: to, Amount: input.Amount},
			},
		}

		return nil
	})
	if err != nil {
		uc.recordRejected(domain.TransactionTypeTransfer, err)
		return nil, err
	}

	uc.recordCompleted(domain.TransactionTypeTransfer, input.Amount, start)
	uc.notify(event)

	return transfer, nil
}

// postEntry writes one signed entry and the matching balance mutation.
// The account snapshot is updated in place so callers observe the
// post-commit balance.
func (uc *MovementUseCase) postEntry(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	transactionID string,
	amount decimal.Decimal,
	now time.Time,
) error {
	entry := &domain.Entry{
		ID:            uc.idGen.Generate(),
		AccountID:     account.ID,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      account.Currency,
		CreatedAt:     now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	newBalance := account.ApplyEntry(amount)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	account.Balance = newBalance

	return nil
}

func (uc *MovementUseCase) newTransaction(txnType domain.TransactionType, description string, now time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:              uc.idGen.Generate(),
		Type:            txnType,
		Status:          domain.TransactionStatusPending,
		ReferenceNumber: uc.refGen.Generate(),
		Description:     description,
		InitiatedAt:     now,
		CreatedAt:       now,
	}
}

func (uc *MovementUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

func (uc *MovementUseCase) notify(event MovementEvent) {
	if uc.notifier == nil || event.Transaction == nil {
		return
	}

	uc.notifier.MovementCompleted(event)
}

func (uc *MovementUseCase) recordCompleted(txnType domain.TransactionType, amount decimal.Decimal, start time.Time) {
	if uc.metrics == nil {
		return
	}

	label := string(txnType)
	uc.metrics.MovementsCompleted.WithLabelValues(label).Inc()
	uc.metrics.MovementDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	amt, _ := amount.Float64()
	uc.metrics.MovementAmount.WithLabelValues(label).Observe(amt)
}

func (uc *MovementUseCase) recordRejected(txnType domain.TransactionType, err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.MovementsRejected.WithLabelValues(string(txnType), rejectionReason(err)).Inc()
}

// rejectionReason buckets movement errors into low-cardinality labels.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrAccountNotActive):
		return "account_not_active"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrSourceAccountNotFound),
		errors.Is(err, domain.ErrDestinationAccountNotFound):
		return "account_not_found"
	default:
		return "error"
	}
}
