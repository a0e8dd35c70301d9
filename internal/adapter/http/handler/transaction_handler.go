package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkotenko/bankcore/internal/adapter/http/dto"
	"github.com/dkotenko/bankcore/internal/domain"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	GetTransactionEntries(ctx context.Context, transactionID string) ([]*domain.Entry, error)
}

// TransactionHandler handles transaction lookup requests.
type TransactionHandler struct {
	statementUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(statementUC TransactionService) *TransactionHandler {
	return &TransactionHandler{statementUC: statementUC}
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	txn, err := h.statementUC.GetTransaction(r.Context(), id)
	if err != nil {
		respondDomainError(w, err, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Entries returns the double-entry rows of a transaction.
func (h *TransactionHandler) Entries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, err := h.statementUC.GetTransactionEntries(r.Context(), id)
	if err != nil {
		respondDomainError(w, err, "failed to get transaction entries")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
