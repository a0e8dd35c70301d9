package dto

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/usecase"
)

const dateLayout = "2006-01-02"

// CreateUserRequest represents a request to create a user.
type CreateUserRequest struct {
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Username:    r.Username,
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
	}
}

// UpdateUserRequest represents a partial user update. Absent fields
// are left untouched.
type UpdateUserRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput() usecase.UpdateUserInput {
	input := usecase.UpdateUserInput{
		FullName:    r.FullName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
	}
	if r.Status != nil {
		status := domain.UserStatus(*r.Status)
		input.Status = &status
	}

	return input
}

// AddBeneficiaryRequest represents a request to save a beneficiary.
type AddBeneficiaryRequest struct {
	BeneficiaryUserID string `json:"beneficiary_user_id"`
}

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	OwnerID         string `json:"owner_id"`
	AccountNumber   string `json:"account_number"`
	BranchCode      string `json:"branch_code,omitempty"`
	AccountTypeCode string `json:"account_type_code,omitempty"`
	Currency        string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:         r.OwnerID,
		AccountNumber:   r.AccountNumber,
		BranchCode:      r.BranchCode,
		AccountTypeCode: r.AccountTypeCode,
		Currency:        domain.Currency(r.Currency),
	}
}

// UpdateAccountRequest represents a partial account update.
type UpdateAccountRequest struct {
	BranchCode      *string `json:"branch_code,omitempty"`
	AccountTypeCode *string `json:"account_type_code,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	input := usecase.UpdateAccountInput{
		BranchCode:      r.BranchCode,
		AccountTypeCode: r.AccountTypeCode,
	}
	if r.Status != nil {
		status := domain.AccountStatus(*r.Status)
		input.Status = &status
	}

	return input
}

// MovementRequest represents a deposit or withdrawal request.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// CreateTransferRequest represents a request to transfer funds.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Description:   r.Description,
	}
}

// ParseDateQuery parses a YYYY-MM-DD query parameter. A missing
// parameter yields nil.
func ParseDateQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected YYYY-MM-DD", key)
	}

	return &t, nil
}
