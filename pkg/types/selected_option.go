package types

import (
	"sort"
	"strings"
)

// SelectedOption is one name/value pair chosen for a product variant,
// e.g. {Name: "size", Value: "42"}.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SelectedOptions is the set of options identifying a variant choice.
type SelectedOptions []SelectedOption

// Canonical returns a copy sorted by option name so that identity
// comparisons do not depend on insertion order.
func (s SelectedOptions) Canonical() SelectedOptions {
	if len(s) == 0 {
		return nil
	}
	out := make(SelectedOptions, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Value < out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Key renders the canonical form as a stable string, usable as part of a
// merchandise identity.
func (s SelectedOptions) Key() string {
	canonical := s.Canonical()
	parts := make([]string, 0, len(canonical))
	for _, opt := range canonical {
		parts = append(parts, opt.Name+"="+opt.Value)
	}
	return strings.Join(parts, ";")
}

// Equal reports whether both sets describe the same variant choice,
// regardless of ordering.
func (s SelectedOptions) Equal(other SelectedOptions) bool {
	return s.Key() == other.Key()
}
