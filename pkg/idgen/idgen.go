// Package idgen issues entity ids and transaction receipt numbers. Callers
// take the Generator interface so tests can substitute deterministic ids.
package idgen

import (
	"github.com/ShiraazMoollatjie/goluhn"
	"github.com/google/uuid"
)

const receiptLength = 12

type Generator interface {
	NewID() string
	NewReceipt() string
}

// UUIDGenerator issues uuid v4 ids and numeric receipt numbers carrying a
// Luhn check digit.
type UUIDGenerator struct{}

func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

func (g *UUIDGenerator) NewReceipt() string {
	return goluhn.Generate(receiptLength)
}

// ValidReceipt reports whether s is a well-formed receipt number.
func ValidReceipt(s string) bool {
	return goluhn.Validate(s) == nil
}
