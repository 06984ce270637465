// Package money keeps all currency arithmetic on exact decimals. Amounts are
// rounded once, at the point a derived field is stored, and cross every
// interface as strings with exactly two fraction digits.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// Round2 rounds to 2 fraction digits, half up. Quote amounts are never
// negative, so decimal's half-away-from-zero Round matches half-up here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// String2 serializes an amount with exactly two fraction digits.
func String2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParsePercent converts raw form input into a discount percent in [0, 100].
// Unparsable or negative input yields zero; values above 100 clamp to 100.
// Malformed discounts never fail a request.
func ParsePercent(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	if parsed.IsNegative() {
		return decimal.Zero
	}
	if parsed.GreaterThan(Hundred) {
		return Hundred
	}
	return parsed
}
