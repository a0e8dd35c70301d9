package usecase

import (
	"context"
	"time"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/infrastructure/metrics"
)

// UserUseCase handles customer profile and beneficiary operations.
type UserUseCase struct {
	userRepo        UserRepository
	beneficiaryRepo BeneficiaryRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewUserUseCase creates a new UserUseCase. m may be nil.
func NewUserUseCase(userRepo UserRepository, beneficiaryRepo BeneficiaryRepository, idGen IDGenerator, m *metrics.Metrics) *UserUseCase {
	return &UserUseCase{
		userRepo:        userRepo,
		beneficiaryRepo: beneficiaryRepo,
		idGen:           idGen,
		metrics:         m,
	}
}

// CreateUserInput represents input for creating a user.
type CreateUserInput struct {
	Username    string
	FullName    string
	Email       string
	PhoneNumber string
	Address     string
}

// CreateUser creates a new user. PhoneNumber is optional but must be
// E.164 when present.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if input.PhoneNumber != "" {
		if err := domain.ValidatePhoneNumber(input.PhoneNumber); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:          uc.idGen.Generate(),
		Username:    input.Username,
		FullName:    input.FullName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		Status:      domain.UserStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.UsersCreated.Inc()
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// UpdateUserInput carries a partial user update; only non-nil fields
// are applied.
type UpdateUserInput struct {
	FullName    *string
	Email       *string
	PhoneNumber *string
	Address     *string
	Status      *domain.UserStatus
}

// UpdateUser applies a partial update to a user.
func (uc *UserUseCase) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}

	if input.PhoneNumber != nil {
		if *input.PhoneNumber != "" {
			if err := domain.ValidatePhoneNumber(*input.PhoneNumber); err != nil {
				return nil, err
			}
		}
		user.PhoneNumber = *input.PhoneNumber
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	if input.Address != nil {
		user.Address = *input.Address
	}

	if input.Status != nil {
		user.Status = *input.Status
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AddBeneficiary saves a directed beneficiary edge between two existing
// users. The edge is unique per (user, beneficiary) pair.
func (uc *UserUseCase) AddBeneficiary(ctx context.Context, userID, beneficiaryUserID string) (*domain.Beneficiary, error) {
	if userID == beneficiaryUserID {
		return nil, domain.ErrSelfBeneficiary
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, beneficiaryUserID); err != nil {
		return nil, err
	}

	edge := &domain.Beneficiary{
		UserID:            userID,
		BeneficiaryUserID: beneficiaryUserID,
		AddedAt:           time.Now().UTC(),
	}

	if err := uc.beneficiaryRepo.Add(ctx, edge); err != nil {
		return nil, err
	}

	return edge, nil
}

// RemoveBeneficiary removes a beneficiary edge.
func (uc *UserUseCase) RemoveBeneficiary(ctx context.Context, userID, beneficiaryUserID string) error {
	return uc.beneficiaryRepo.Remove(ctx, userID, beneficiaryUserID)
}

// ListBeneficiaries lists the users saved as beneficiaries of a user.
func (uc *UserUseCase) ListBeneficiaries(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	edges, err := uc.beneficiaryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(edges))
	for _, edge := range edges {
		user, err := uc.userRepo.GetByID(ctx, edge.BeneficiaryUserID)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}
