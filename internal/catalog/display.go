package catalog

import "strings"

// DisplayName renders a detector label as a customer-facing item name:
// dash-separated segments capitalized and joined with spaces. A name ending
// in "Seat" gains the word "Insert" — a bare seat cushion is sold as a
// "Seat Insert" on customer documents.
func DisplayName(label string) string {
	segments := strings.Split(label, "-")
	words := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		words = append(words, capitalize(segment))
	}
	if len(words) > 0 && words[len(words)-1] == "Seat" {
		words = append(words, "Insert")
	}
	return strings.Join(words, " ")
}

// NormalizeItemName maps a machine-generated identifier (underscores for
// spaces, arbitrary casing) back to the display form used on quotes.
func NormalizeItemName(raw string) string {
	words := strings.Fields(strings.ReplaceAll(raw, "_", " "))
	for i, word := range words {
		words[i] = capitalize(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
