package model

import (
	"fmt"
	"math"
	"strings"
)

// Size is the Small/Medium/Large complexity bucket of a work item
type Size string

const (
	Small  Size = "S"
	Medium Size = "M"
	Large  Size = "L"
)

// Sizes returns the sizes in ascending order
func Sizes() []Size {
	return []Size{Small, Medium, Large}
}

// ParseSize accepts S/M/L or Small/Medium/Large, case insensitive
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "small":
		return Small, nil
	case "m", "medium":
		return Medium, nil
	case "l", "large":
		return Large, nil
	default:
		return "", fmt.Errorf("%w: size '%s'", ErrInvalidValue, s)
	}
}

// SizeMultiplier holds the hours per unit for each size
type SizeMultiplier struct {
	Small  float64 `json:"S" yaml:"S"`
	Medium float64 `json:"M" yaml:"M"`
	Large  float64 `json:"L" yaml:"L"`
}

// Hours returns the hours per unit for the given size
func (m SizeMultiplier) Hours(size Size) float64 {
	switch size {
	case Small:
		return m.Small
	case Medium:
		return m.Medium
	case Large:
		return m.Large
	}
	return 0
}

// Validate checks that all hour values are >= 0
func (m SizeMultiplier) Validate() error {
	for _, size := range Sizes() {
		if err := validateHours(m.Hours(size)); err != nil {
			return fmt.Errorf("size %s: %w", size, err)
		}
	}
	return nil
}

func validateHours(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return fmt.Errorf("%w: hours must be >= 0, got %v", ErrInvalidValue, hours)
	}
	return nil
}

// MultiplierTable maps every effort key to its size multipliers
type MultiplierTable map[EffortKey]SizeMultiplier

// BaselineMultipliers returns the table every new estimation starts from
// before a default profile is overlaid
func BaselineMultipliers() MultiplierTable {
	table := make(MultiplierTable, len(effortCatalog))
	for _, key := range EffortKeys() {
		table[key] = SizeMultiplier{Small: 1, Medium: 2, Large: 3}
	}
	return table
}

// Get returns the multipliers of the key (zero values if missing)
func (t MultiplierTable) Get(key EffortKey) SizeMultiplier {
	return t[key]
}

// Set changes the hours of one size of a key
func (t MultiplierTable) Set(key EffortKey, size Size, hours float64) error {
	if !key.Valid() {
		return fmt.Errorf("%w: effort key '%s'", ErrInvalidValue, key)
	}
	if err := validateHours(hours); err != nil {
		return err
	}

	m := t[key]
	switch size {
	case Small:
		m.Small = hours
	case Medium:
		m.Medium = hours
	case Large:
		m.Large = hours
	default:
		return fmt.Errorf("%w: size '%s'", ErrInvalidValue, size)
	}
	t[key] = m

	return nil
}

// ApplyDefaults overlays defaults onto the table key by key.
// Keys absent from defaults keep their current value.
func (t MultiplierTable) ApplyDefaults(defaults MultiplierTable) {
	for key, m := range defaults {
		t[key] = m
	}
}

// Clone returns a copy of the table
func (t MultiplierTable) Clone() MultiplierTable {
	clone := make(MultiplierTable, len(t))
	for key, m := range t {
		clone[key] = m
	}
	return clone
}

// Validate checks every entry of the table
func (t MultiplierTable) Validate() error {
	for key, m := range t {
		if !key.Valid() {
			return fmt.Errorf("%w: effort key '%s'", ErrInvalidValue, key)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("effort key '%s': %w", key, err)
		}
	}
	return nil
}
