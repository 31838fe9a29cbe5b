// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Variant represents a single purchasable unit from the catalog snapshot.
// Within one reconciliation pass a Variant is read-only; the catalog index
// owns the authoritative Available count.
type Variant struct {
	ID            string
	SKU           string
	Barcode       string
	AlternateCode string
	Title         string
	UnitPrice     decimal.Decimal
	Available     int
}

// HasIdentifier reports whether any of the variant's lookup codes is set.
func (v *Variant) HasIdentifier() bool {
	return v.SKU != "" || v.Barcode != "" || v.AlternateCode != ""
}

// NormalizeIdentifier canonicalizes a raw lookup code for comparison:
// surrounding whitespace is trimmed and the comparison is case-insensitive.
func NormalizeIdentifier(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
