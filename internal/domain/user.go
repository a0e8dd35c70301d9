package domain

import "time"

// UserStatus represents the lifecycle state of a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

// User represents a bank customer. Email and PhoneNumber are the
// contact channels used by notification dispatch; either may be empty.
type User struct {
	ID          string
	Username    string
	FullName    string
	Email       string
	PhoneNumber string
	Address     string
	Status      UserStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Beneficiary is a directed edge from a user to another user they have
// saved as a payee. The (UserID, BeneficiaryUserID) pair is unique.
type Beneficiary struct {
	UserID            string
	BeneficiaryUserID string
	AddedAt           time.Time
}
