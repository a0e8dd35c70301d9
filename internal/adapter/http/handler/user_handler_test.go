package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkotenko/bankcore/internal/adapter/http/dto"
	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/usecase"
)

type userServiceStub struct {
	createFn    func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	getFn       func(ctx context.Context, id string) (*domain.User, error)
	updateFn    func(ctx context.Context, id string, input usecase.UpdateUserInput) (*domain.User, error)
	addBenFn    func(ctx context.Context, userID, beneficiaryUserID string) (*domain.Beneficiary, error)
	removeBenFn func(ctx context.Context, userID, beneficiaryUserID string) error
	listBenFn   func(ctx context.Context, userID string) ([]*domain.User, error)
	listAcctsFn func(ctx context.Context, ownerID string) ([]*domain.Account, error)
}

func (s *userServiceStub) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *userServiceStub) UpdateUser(ctx context.Context, id string, input usecase.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, input)
}

func (s *userServiceStub) AddBeneficiary(ctx context.Context, userID, beneficiaryUserID string) (*domain.Beneficiary, error) {
	return s.addBenFn(ctx, userID, beneficiaryUserID)
}

func (s *userServiceStub) RemoveBeneficiary(ctx context.Context, userID, beneficiaryUserID string) error {
	return s.removeBenFn(ctx, userID, beneficiaryUserID)
}

func (s *userServiceStub) ListBeneficiaries(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.listBenFn(ctx, userID)
}

func (s *userServiceStub) ListUserAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	return s.listAcctsFn(ctx, ownerID)
}

func TestUserHandler_Create_Success(t *testing.T) {
	user := &domain.User{
		ID:       "user-1",
		Username: "alice",
		FullName: "Alice Smith",
		Email:    "alice@example.com",
		Status:   domain.UserStatusActive,
	}

	var captured usecase.CreateUserInput
	stub := &userServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			captured = input
			return user, nil
		},
	}
	handler := NewUserHandler(stub, stub)

	body, _ := json.Marshal(dto.CreateUserRequest{
		Username:    "alice",
		FullName:    "Alice Smith",
		Email:       "alice@example.com",
		PhoneNumber: "+14155552671",
	})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Username != "alice" || captured.PhoneNumber != "+14155552671" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-1" {
		t.Fatalf("expected user ID user-1, got %s", resp.ID)
	}
}

func TestUserHandler_Create_InvalidInput(t *testing.T) {
	stub := &userServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrInvalidEmail
		},
	}
	handler := NewUserHandler(stub, stub)

	body, _ := json.Marshal(dto.CreateUserRequest{Username: "alice", Email: "not-an-email"})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &userServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub, stub)

	req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	req = setChiURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_Update(t *testing.T) {
	stub := &userServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateUserInput) (*domain.User, error) {
			if id != "user-1" {
				t.Fatalf("expected id user-1, got %s", id)
			}
			if input.Email == nil || *input.Email != "new@example.com" {
				t.Fatalf("expected email update, got %+v", input)
			}
			if input.FullName != nil {
				t.Fatalf("expected absent fields to stay nil, got %+v", input)
			}
			return &domain.User{ID: id, Email: "new@example.com"}, nil
		},
	}
	handler := NewUserHandler(stub, stub)

	req := httptest.NewRequest(http.MethodPatch, "/users/user-1", bytes.NewBufferString(`{"email":"new@example.com"}`))
	req = setChiURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_Accounts(t *testing.T) {
	stub := &userServiceStub{
		listAcctsFn: func(ctx context.Context, ownerID string) ([]*domain.Account, error) {
			if ownerID != "user-1" {
				t.Fatalf("expected owner user-1, got %s", ownerID)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	}
	handler := NewUserHandler(stub, stub)

	req := httptest.NewRequest(http.MethodGet, "/users/user-1/accounts", nil)
	req = setChiURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	handler.Accounts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}

func TestUserHandler_AddBeneficiary(t *testing.T) {
	stub := &userServiceStub{
		addBenFn: func(ctx context.Context, userID, beneficiaryUserID string) (*domain.Beneficiary, error) {
			if userID != "user-1" || beneficiaryUserID != "user-2" {
				t.Fatalf("unexpected pair %s -> %s", userID, beneficiaryUserID)
			}
			return &domain.Beneficiary{UserID: userID, BeneficiaryUserID: beneficiaryUserID}, nil
		},
	}
	handler := NewUserHandler(stub, stub)

	body, _ := json.Marshal(dto.AddBeneficiaryRequest{BeneficiaryUserID: "user-2"})
	req := httptest.NewRequest(http.MethodPost, "/users/user-1/beneficiaries", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	handler.AddBeneficiary(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_AddBeneficiary_Duplicate(t *testing.T) {
	stub := &userServiceStub{
		addBenFn: func(ctx context.Context, userID, beneficiaryUserID string) (*domain.Beneficiary, error) {
			return nil, domain.ErrBeneficiaryExists
		},
	}
	handler := NewUserHandler(stub, stub)

	body, _ := json.Marshal(dto.AddBeneficiaryRequest{BeneficiaryUserID: "user-2"})
	req := httptest.NewRequest(http.MethodPost, "/users/user-1/beneficiaries", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	handler.AddBeneficiary(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_RemoveBeneficiary(t *testing.T) {
	removed := false
	stub := &userServiceStub{
		removeBenFn: func(ctx context.Context, userID, beneficiaryUserID string) error {
			removed = true
			if userID != "user-1" || beneficiaryUserID != "user-2" {
				t.Fatalf("unexpected pair %s -> %s", userID, beneficiaryUserID)
			}
			return nil
		},
	}
	handler := NewUserHandler(stub, stub)

	req := httptest.NewRequest(http.MethodDelete, "/users/user-1/beneficiaries/user-2", nil)
	req = setChiURLParams(req, map[string]string{"id": "user-1", "beneficiaryID": "user-2"})
	rec := httptest.NewRecorder()

	handler.RemoveBeneficiary(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !removed {
		t.Fatal("expected RemoveBeneficiary to be called")
	}
}

func TestUserHandler_ListBeneficiaries(t *testing.T) {
	stub := &userServiceStub{
		listBenFn: func(ctx context.Context, userID string) ([]*domain.User, error) {
			return []*domain.User{{ID: "user-2"}, {ID: "user-3"}}, nil
		},
	}
	handler := NewUserHandler(stub, stub)

	req := httptest.NewRequest(http.MethodGet, "/users/user-1/beneficiaries", nil)
	req = setChiURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	handler.ListBeneficiaries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 beneficiaries, got %d", len(resp))
	}
}
