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

// UserService defines the behavior needed by UserHandler.
type UserService interface {
	CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input usecase.UpdateUserInput) (*domain.User, error)
	AddBeneficiary(ctx context.Context, userID, beneficiaryUserID string) (*domain.Beneficiary, error)
	RemoveBeneficiary(ctx context.Context, userID, beneficiaryUserID string) error
	ListBeneficiaries(ctx context.Context, userID string) ([]*domain.User, error)
}

// OwnerAccountService lists the accounts a user owns.
type OwnerAccountService interface {
	ListUserAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error)
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userUC    UserService
	accountUC OwnerAccountService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC UserService, accountUC OwnerAccountService) *UserHandler {
	return &UserHandler{
		userUC:    userUC,
		accountUC: accountUC,
	}
}

// Create creates a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.CreateUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondDomainError(w, err, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.userUC.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, err, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Update applies a partial user update.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.UpdateUser(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		respondDomainError(w, err, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Accounts lists the accounts the user owns.
func (h *UserHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	accounts, err := h.accountUC.ListUserAccounts(r.Context(), id)
	if err != nil {
		respondDomainError(w, err, "failed to list user accounts")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// AddBeneficiary saves another user as a beneficiary.
func (h *UserHandler) AddBeneficiary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AddBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if _, err := h.userUC.AddBeneficiary(r.Context(), id, req.BeneficiaryUserID); err != nil {
		respondDomainError(w, err, "failed to add beneficiary")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// RemoveBeneficiary removes a saved beneficiary.
func (h *UserHandler) RemoveBeneficiary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	beneficiaryID := chi.URLParam(r, "beneficiaryID")

	if err := h.userUC.RemoveBeneficiary(r.Context(), id, beneficiaryID); err != nil {
		respondDomainError(w, err, "failed to remove beneficiary")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBeneficiaries lists the user's saved beneficiaries.
func (h *UserHandler) ListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	users, err := h.userUC.ListBeneficiaries(r.Context(), id)
	if err != nil {
		respondDomainError(w, err, "failed to list beneficiaries")
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(users))
}
