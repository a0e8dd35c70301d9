package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dkotenko/bankcore/internal/adapter/http/dto"
	"github.com/dkotenko/bankcore/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

var notFoundErrors = []error{
	domain.ErrAccountNotFound,
	domain.ErrSourceAccountNotFound,
	domain.ErrDestinationAccountNotFound,
	domain.ErrTransactionNotFound,
	domain.ErrTransferNotFound,
	domain.ErrUserNotFound,
	domain.ErrBeneficiaryNotFound,
}

var rejectionErrors = []error{
	domain.ErrInsufficientFunds,
	domain.ErrInvalidAmount,
	domain.ErrAmountTooLarge,
	domain.ErrCurrencyMismatch,
	domain.ErrSameAccount,
	domain.ErrAccountNotActive,
	domain.ErrAccountNumberTaken,
	domain.ErrBeneficiaryExists,
	domain.ErrSelfBeneficiary,
	domain.ErrInvalidCurrency,
	domain.ErrInvalidEmail,
	domain.ErrInvalidPhoneNumber,
	domain.ErrInvalidUsername,
}

// mapDomainError maps domain errors to HTTP status codes. Anything
// unrecognized is treated as a persistence failure.
func mapDomainError(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range rejectionErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// respondDomainError writes an error response for a use case failure.
// Persistence failures keep their details out of the response body.
func respondDomainError(w http.ResponseWriter, err error, message string) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, message, "")
		return
	}

	writeError(w, status, message, err.Error())
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
