package postgres

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// UUIDReferenceGenerator generates customer-facing transaction
// reference numbers.
type UUIDReferenceGenerator struct{}

// NewUUIDReferenceGenerator creates a new UUIDReferenceGenerator.
func NewUUIDReferenceGenerator() *UUIDReferenceGenerator {
	return &UUIDReferenceGenerator{}
}

// Generate generates a reference number of the form TXN-<uuid>.
func (g *UUIDReferenceGenerator) Generate() string {
	return "TXN-" + strings.ToUpper(uuid.NewString())
}
