package enums

import "fmt"

// ItemKind discriminates a base furniture piece from a fabric cover when
// adding a line item to an existing quote.
type ItemKind string

const (
	ItemKindItem  ItemKind = "item"
	ItemKindCover ItemKind = "cover"
)

var validItemKinds = []ItemKind{
	ItemKindItem,
	ItemKindCover,
}

// IsValid reports whether the value matches the canonical item kind enum.
func (i ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemKind converts the raw string to ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}
