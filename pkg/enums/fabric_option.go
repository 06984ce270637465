package enums

import "fmt"

// FabricOption selects which cover price table applies.
type FabricOption string

const (
	FabricOptionVelvet   FabricOption = "velvet"
	FabricOptionChenille FabricOption = "chenille"
)

var validFabricOptions = []FabricOption{
	FabricOptionVelvet,
	FabricOptionChenille,
}

// IsValid reports whether the value matches the canonical fabric option enum.
func (f FabricOption) IsValid() bool {
	for _, candidate := range validFabricOptions {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFabricOption converts the raw string to FabricOption.
func ParseFabricOption(value string) (FabricOption, error) {
	for _, candidate := range validFabricOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fabric option %q", value)
}
