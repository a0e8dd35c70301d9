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

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
}

// TransferReader looks up persisted transfers.
type TransferReader interface {
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	movementUC   TransferService
	transferRepo TransferReader
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(movementUC TransferService, transferRepo TransferReader) *TransferHandler {
	return &TransferHandler{
		movementUC:   movementUC,
		transferRepo: transferRepo,
	}
}

// Create moves funds between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transfer, err := h.movementUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondDomainError(w, err, "failed to create transfer")
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.transferRepo.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err, "failed to get transfer")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}
