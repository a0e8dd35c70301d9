package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkotenko/bankcore/internal/adapter/http/dto"
	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/usecase"
)

// AccountService defines the account behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	UpdateAccount(ctx context.Context, id string, input usecase.UpdateAccountInput) (*domain.Account, error)
}

// MovementService defines the money movement behavior needed by
// AccountHandler.
type MovementService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Transaction, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Transaction, error)
}

// StatementService defines the query behavior needed by AccountHandler.
type StatementService interface {
	GetStatement(ctx context.Context, input usecase.StatementInput) ([]*domain.Entry, error)
	GetTransactionHistory(ctx context.Context, input usecase.HistoryInput) ([]*domain.Transaction, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC   AccountService
	movementUC  MovementService
	statementUC StatementService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, movementUC MovementService, statementUC StatementService) *AccountHandler {
	return &AccountHandler{
		accountUC:   accountUC,
		movementUC:  movementUC,
		statementUC: statementUC,
	}
}

// Create opens a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondDomainError(w, err, "failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		respondDomainError(w, err, "failed to get account")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit: parseIntQuery(r, "limit", 0),
		Skip:  parseIntQuery(r, "skip", 0),
	})
	if err != nil {
		respondDomainError(w, err, "failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Update applies a partial account update.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		respondDomainError(w, err, "failed to update account")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Deposit credits the account.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.movementUC.Deposit(r.Context(), usecase.DepositInput{
		AccountID:   id,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(w, err, "failed to deposit")
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Withdraw debits the account.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.movementUC.Withdraw(r.Context(), usecase.WithdrawInput{
		AccountID:   id,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(w, err, "failed to withdraw")
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Statement returns the account's ledger entries for a date range.
func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start, err := dto.ParseDateQuery(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	end, err := dto.ParseDateQuery(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	entries, err := h.statementUC.GetStatement(r.Context(), usecase.StatementInput{
		AccountID: id,
		StartDate: start,
		EndDate:   end,
		Skip:      parseIntQuery(r, "skip", 0),
		Limit:     parseIntQuery(r, "limit", 0),
	})
	if err != nil {
		respondDomainError(w, err, "failed to get statement")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Transactions returns the account's transaction history.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start, err := dto.ParseDateQuery(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	end, err := dto.ParseDateQuery(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	input := usecase.HistoryInput{
		AccountID: id,
		StartDate: start,
		EndDate:   end,
		Skip:      parseIntQuery(r, "skip", 0),
		Limit:     parseIntQuery(r, "limit", 0),
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		txnType := domain.TransactionType(raw)
		if !txnType.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid query", "unknown transaction type")
			return
		}
		input.Type = &txnType
	}

	txns, err := h.statementUC.GetTransactionHistory(r.Context(), input)
	if err != nil {
		respondDomainError(w, err, "failed to get transaction history")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
