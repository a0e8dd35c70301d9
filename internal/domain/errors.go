package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound            = errors.New("account not found")
	ErrSourceAccountNotFound      = errors.New("source account not found")
	ErrDestinationAccountNotFound = errors.New("destination account not found")
	ErrAccountNotActive           = errors.New("account is not active")
	ErrAccountNumberTaken         = errors.New("account number already in use")

	// Movement rejections
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyMismatch  = errors.New("cannot transfer between different currencies")
	ErrSameAccount       = errors.New("cannot transfer to same account")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransferNotFound    = errors.New("transfer not found")

	// User errors
	ErrUserNotFound        = errors.New("user not found")
	ErrBeneficiaryExists   = errors.New("beneficiary already exists")
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
	ErrSelfBeneficiary     = errors.New("cannot add self as beneficiary")
)
