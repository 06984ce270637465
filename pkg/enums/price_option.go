package enums

import "fmt"

// PriceOption selects which base price table applies to seat/side items.
type PriceOption string

const (
	PriceOptionStandard PriceOption = "standard"
	PriceOptionLovesoft PriceOption = "lovesoft"
)

var validPriceOptions = []PriceOption{
	PriceOptionStandard,
	PriceOptionLovesoft,
}

// IsValid reports whether the value matches the canonical price option enum.
func (p PriceOption) IsValid() bool {
	for _, candidate := range validPriceOptions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriceOption converts the raw string to PriceOption.
func ParsePriceOption(value string) (PriceOption, error) {
	for _, candidate := range validPriceOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price option %q", value)
}
