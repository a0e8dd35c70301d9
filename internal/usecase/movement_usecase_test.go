package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/infrastructure/metrics"
	"github.com/dkotenko/bankcore/internal/usecase"
	"github.com/dkotenko/bankcore/internal/usecase/mocks"
)

type movementFixture struct {
	accountRepo  *mocks.MockAccountRepository
	txnRepo      *mocks.MockTransactionRepository
	entryRepo    *mocks.MockEntryRepository
	transferRepo *mocks.MockTransferRepository
	txManager    *mocks.MockTransactionManager
	notifier     *mocks.MockNotifier
	uc           *usecase.MovementUseCase
}

func newMovementFixture() *movementFixture {
	f := &movementFixture{
		accountRepo:  mocks.NewMockAccountRepository(),
		txnRepo:      mocks.NewMockTransactionRepository(),
		entryRepo:    mocks.NewMockEntryRepository(),
		transferRepo: mocks.NewMockTransferRepository(),
		txManager:    mocks.NewMockTransactionManager(),
		notifier:     mocks.NewMockNotifier(),
	}
	f.uc = usecase.NewMovementUseCase(
		f.txManager,
		f.accountRepo,
		f.txnRepo,
		f.entryRepo,
		f.transferRepo,
		f.notifier,
		nil,
		mocks.NewMockIDGenerator(),
		mocks.NewMockReferenceGenerator(),
		nil,
	)
	return f
}

func activeAccount(id, owner string, currency domain.Currency, balance int64) *domain.Account {
	return &domain.Account{
		ID:            id,
		OwnerID:       owner,
		AccountNumber: "AN-" + id,
		Currency:      currency,
		Balance:       decimal.NewFromInt(balance),
		Status:        domain.AccountStatusActive,
	}
}

func TestMovementUseCase_Deposit(t *testing.T) {
	f := newMovementFixture()
	f.accountRepo.Put(activeAccount("acc-1", "user-1", domain.CurrencyUSD, 100))

	txn, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.Type != domain.TransactionTypeDeposit {
		t.Errorf("expected type %s, got %s", domain.TransactionTypeDeposit, txn.Type)
	}
	if txn.Status != domain.TransactionStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.TransactionStatusCompleted, txn.Status)
	}
	if txn.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}

	account, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected balance 150, got %s", account.Balance)
	}

	entries := f.entryRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected entry amount 50, got %s", entries[0].Amount)
	}

	if f.txManager.Last == nil || !f.txManager.Last.Committed {
		t.Error("expected transaction to be committed")
	}

	events := f.notifier.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 notification event, got %d", len(events))
	}
	if len(events[0].Parties) != 1 || events[0].Parties[0].Account.ID != "acc-1" {
		t.Errorf("unexpected event parties: %+v", events[0].Parties)
	}
}

func TestMovementUseCase_Deposit_InvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"zero", decimal.Zero},
		{"negative", decimal.NewFromInt(-10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMovementFixture()
			f.accountRepo.Put(activeAccount("acc-1", "user-1", domain.CurrencyUSD, 100))

			_, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
				AccountID: "acc-1",
				Amount:    tt.amount,
			})
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount, got %v", err)
			}
			if len(f.entryRepo.Entries()) != 0 {
				t.Error("rejected deposit must leave no entries")
			}
			if len(f.notifier.Events()) != 0 {
				t.Error("rejected deposit must not notify")
			}
		})
	}
}

func TestMovementUseCase_Deposit_AccountNotFound(t *testing.T) {
	f := newMovementFixture()

	_, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		AccountID: "missing",
		Amount:    decimal.NewFromInt(50),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMovementUseCase_Withdraw(t *testing.T) {
	f := newMovementFixture()
	f.accountRepo.Put(activeAccount("acc-1", "user-1", domain.CurrencyUSD, 100))

	txn, err := f.uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.Type != domain.TransactionTypeWithdrawal {
		t.Errorf("expected type %s, got %s", domain.TransactionTypeWithdrawal, txn.Type)
	}

	account, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected balance 60, got %s", account.Balance)
	}

	entries := f.entryRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.NewFromInt(-40)) {
		t.Errorf("expected entry amount -40, got %s", entries[0].Amount)
	}
}

func TestMovementUseCase_Withdraw_InsufficientFunds(t *testing.T) {
	f := newMovementFixture()
	f.accountRepo.Put(activeAccount("acc-1", "user-1", domain.CurrencyUSD, 100))

	_, err := f.uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(150),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	account, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance must be untouched, got %s", account.Balance)
	}
	if len(f.entryRepo.Entries()) != 0 {
		t.Error("rejected withdrawal must leave no entries")
	}
	if f.txManager.Last == nil || !f.txManager.Last.RolledBack {
		t.Error("expected transaction rollback")
	}
	if len(f.notifier.Events()) != 0 {
		t.Error("rejected withdrawal must not notify")
	}
}

func TestMovementUseCase_RejectsClosedAccounts(t *testing.T) {
	f := newMovementFixture()
	closed := activeAccount("acc-1", "user-1", domain.CurrencyUSD, 100)
	closed.Status = domain.AccountStatusClosed
	f.accountRepo.Put(closed)
	f.accountRepo.Put(activeAccount("acc-2", "user-2", domain.CurrencyUSD, 100))

	if _, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(10),
	}); !errors.Is(err, domain.ErrAccountNotActive) {
		t.Fatalf("deposit: expected ErrAccountNotActive, got %v", err)
	}

	if _, err := f.uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(10),
	}); !errors.Is(err, domain.ErrAccountNotActive) {
		t.Fatalf("withdraw: expected ErrAccountNotActive, got %v", err)
	}

	if _, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-2",
		ToAccountID:   "acc-1",
		Amount:        decimal.NewFromInt(10),
	}); !errors.Is(err, domain.ErrAccountNotActive) {
		t.Fatalf("transfer: expected ErrAccountNotActive, got %v", err)
	}

	if len(f.entryRepo.Entries()) != 0 {
		t.Error("rejected movements must leave no entries")
	}
}

func TestMovementUseCase_Transfer(t *testing.T) {
	f := newMovementFixture()
	f.accountRepo.Put(activeAccount("acc-a", "user-1", domain.CurrencyUSD, 100))
	f.accountRepo.Put(activeAccount("acc-b", "user-2", domain.CurrencyUSD, 5))

	transfer, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transfer.FromAccountID != "acc-a" || transfer.ToAccountID != "acc-b" {
		t.Errorf("unexpected transfer endpoints: %+v", transfer)
	}

	from, _ := f.accountRepo.GetByID(context.Background(), "acc-a")
	to, _ := f.accountRepo.GetByID(context.Background(), "acc-b")
	if !from.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected source balance 70, got %s", from.Balance)
	}
	if !to.Balance.Equal(decimal.NewFromInt(35)) {
		t.Errorf("expected destination balance 35, got %s", to.Balance)
	}

	entries := f.entryRepo.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	sum := decimal.Zero
	for _, e := range entries {
		if e.TransactionID != transfer.TransactionID {
			t.Errorf("entry %s not linked to transfer transaction", e.ID)
		}
		sum = sum.Add(e.Amount)
	}
	if !sum.IsZero() {
		t.Errorf("transfer entries must sum to zero, got %s", sum)
	}

	txn, err := f.txnRepo.GetByID(context.Background(), transfer.TransactionID)
	if err != nil {
		t.Fatalf("transaction not persisted: %v", err)
	}
	if txn.Status != domain.TransactionStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.TransactionStatusCompleted, txn.Status)
	}

	events := f.notifier.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 notification event, got %d", len(events))
	}
	if len(events[0].Parties) != 2 {
		t.Errorf("expected 2 parties in event, got %d", len(events[0].Parties))
	}
}

func TestMovementUseCase_Transfer_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		seed      func(f *movementFixture)
		input     usecase.TransferInput
		errorType error
	}{
		{
			name: "same account",
			seed: func(f *movementFixture) {
				f.accountRepo.Put(activeAccount("acc-a", "user-1", domain.CurrencyUSD, 100))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-a",
				Amount:        decimal.NewFromInt(10),
			},
			errorType: domain.ErrSameAccount,
		},
		{
			name: "currency mismatch",
			seed: func(f *movementFixture) {
				f.accountRepo.Put(activeAccount("acc-a", "user-1", domain.CurrencyUSD, 100))
				f.accountRepo.Put(activeAccount("acc-b", "user-2", domain.CurrencyEUR, 100))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(10),
			},
			errorType: domain.ErrCurrencyMismatch,
		},
		{
			name: "insufficient funds",
			seed: func(f *movementFixture) {
				f.accountRepo.Put(activeAccount("acc-a", "user-1", domain.CurrencyUSD, 5))
				f.accountRepo.Put(activeAccount("acc-b", "user-2", domain.CurrencyUSD, 0))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(10),
			},
			errorType: domain.ErrInsufficientFunds,
		},
		{
			name: "source not found",
			seed: func(f *movementFixture) {
				f.accountRepo.Put(activeAccount("acc-b", "user-2", domain.CurrencyUSD, 100))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(10),
			},
			errorType: domain.ErrSourceAccountNotFound,
		},
		{
			name: "destination not found",
			seed: func(f *movementFixture) {
				f.accountRepo.Put(activeAccount("acc-a", "user-1", domain.CurrencyUSD, 100))
			},
			input: usecase.TransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.NewFromInt(10),
			},
			errorType: domain.ErrDestinationAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMovementFixture()
			tt.seed(f)

			_, err := f.uc.Transfer(context.Background(), tt.input)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
			if len(f.entryRepo.Entries()) != 0 {
				t.Error("rejected transfer must leave no entries")
			}
			if len(f.notifier.Events()) != 0 {
				t.Error("rejected transfer must not notify")
			}
		})
	}
}

func TestMovementUseCase_Transfer_EntryFailureRollsBack(t *testing.T) {
	f := newMovementFixture()
	f.accountRepo.Put(activeAccount("acc-a", "user-1", domain.CurrencyUSD, 100))
	f.accountRepo.Put(activeAccount("acc-b", "user-2", domain.CurrencyUSD, 0))

	persistErr := errors.New("insert failed")
	f.entryRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
		return persistErr
	}

	_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(10),
	})
	if !errors.Is(err, persistErr) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if f.txManager.Last == nil || f.txManager.Last.Committed {
		t.Error("failed transfer must not commit")
	}
	if !f.txManager.Last.RolledBack {
		t.Error("failed transfer must roll back")
	}
	if len(f.notifier.Events()) != 0 {
		t.Error("failed transfer must not notify")
	}
}

func TestMovementUseCase_RetrierWrapsCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newMovementFixture()
	f.accountRepo.Put(activeAccount("acc-1", "user-1", domain.CurrencyUSD, 100))

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, operation func() error) error {
			return operation()
		},
	)

	uc := usecase.NewMovementUseCase(
		f.txManager,
		f.accountRepo,
		f.txnRepo,
		f.entryRepo,
		f.transferRepo,
		nil,
		retrier,
		mocks.NewMockIDGenerator(),
		mocks.NewMockReferenceGenerator(),
		nil,
	)

	if _, err := uc.Deposit(context.Background(), usecase.DepositInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.NewFromInt(110)) {
		t.Errorf("expected balance 110, got %s", account.Balance)
	}
}

func TestMovementUseCase_RecordsMetrics(t *testing.T) {
	f := newMovementFixture()
	m := metrics.NewWith(prometheus.NewRegistry())
	f.uc = usecase.NewMovementUseCase(
		f.txManager,
		f.accountRepo,
		f.txnRepo,
		f.entryRepo,
		f.transferRepo,
		f.notifier,
		nil,
		mocks.NewMockIDGenerator(),
		mocks.NewMockReferenceGenerator(),
		m,
	)
	f.accountRepo.Put(activeAccount("acc-1", "user-1", domain.CurrencyUSD, 100))
	f.accountRepo.Put(activeAccount("acc-2", "user-2", domain.CurrencyUSD, 100))

	if _, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(50),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.NewFromInt(25),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountID: "acc-2",
		Amount:    decimal.NewFromInt(500),
	}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	deposits := testutil.ToFloat64(m.MovementsCompleted.WithLabelValues(string(domain.TransactionTypeDeposit)))
	if deposits != 1 {
		t.Errorf("expected 1 completed deposit, got %v", deposits)
	}

	transfers := testutil.ToFloat64(m.MovementsCompleted.WithLabelValues(string(domain.TransactionTypeTransfer)))
	if transfers != 1 {
		t.Errorf("expected 1 completed transfer, got %v", transfers)
	}

	rejected := testutil.ToFloat64(m.MovementsRejected.WithLabelValues(string(domain.TransactionTypeWithdrawal), "insufficient_funds"))
	if rejected != 1 {
		t.Errorf("expected 1 rejected withdrawal, got %v", rejected)
	}

	withdrawals := testutil.ToFloat64(m.MovementsCompleted.WithLabelValues(string(domain.TransactionTypeWithdrawal)))
	if withdrawals != 0 {
		t.Errorf("rejected withdrawal must not count as completed, got %v", withdrawals)
	}
}
