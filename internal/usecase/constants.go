package usecase

import "time"

const (
	// DefaultPageSize is applied when a list request does not set a limit.
	DefaultPageSize = 100

	// MaxPageSize caps the limit of any list request.
	MaxPageSize = 200

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
