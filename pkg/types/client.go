package types

import (
	"fmt"
	"strings"
	"unicode"
)

// Address holds the customer's shipping/billing address. Pure data, no
// business rule beyond trimming at the boundary.
type Address struct {
	Line1      string  `json:"line1,omitempty"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postal_code,omitempty"`
	Country    string  `json:"country,omitempty"`
}

// Client identifies the customer a quote was prepared for.
type Client struct {
	Name    string  `json:"name,omitempty"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address,omitempty"`
}

// FormatPhone normalizes a phone number to NNN-NNN-NNNN. Input must contain
// exactly ten digits once separators are stripped.
func FormatPhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return "", fmt.Errorf("phone must contain exactly 10 digits, got %d", len(d))
	}
	return fmt.Sprintf("%s-%s-%s", d[0:3], d[3:6], d[6:10]), nil
}
