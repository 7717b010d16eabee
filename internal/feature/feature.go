package feature

import (
	"fmt"
	"slices"

	"github.com/roach88/sound/internal/ir"
)

// Category is the segment category a bundle describes.
type Category string

const (
	Consonant Category = "consonant"
	Vowel     Category = "vowel"
)

// Categories lists the known categories in canonical order.
var Categories = []Category{Consonant, Vowel}

// Value is a feature value. Every domain admits NA.
type Value string

const (
	// NA marks a feature that does not apply to a segment. It is an explicit
	// value, never an absence.
	NA    Value = ir.NotApplicable
	Plus  Value = "+"
	Minus Value = "-"
	Zero  Value = "0"
)

// Kind is the shape of a feature's value domain.
type Kind string

const (
	Binary  Kind = "binary"  // + -
	Ternary Kind = "ternary" // + - 0
	Enum    Kind = "enum"    // closed declared list
)

// Feature is a named distinctive dimension with a fixed value domain.
// Features are immutable once their Model is built.
type Feature struct {
	Name           string
	Kind           Kind
	Categories     []Category
	Suprasegmental bool
	Default        Value
	Description    string

	values []Value
}

// NewFeature builds a feature. For Binary and Ternary kinds the domain is
// implied and values must be empty; Enum features must declare at least two
// values.
func NewFeature(name string, kind Kind, values []Value, categories ...Category) (Feature, error) {
	f := Feature{Name: name, Kind: kind, Categories: slices.Clone(categories), Default: NA}

	switch kind {
	case Binary:
		f.values = []Value{Plus, Minus}
	case Ternary:
		f.values = []Value{Plus, Minus, Zero}
	case Enum:
		if len(values) < 2 {
			return Feature{}, fmt.Errorf("feature %q: enum domain needs at least two values", name)
		}
		seen := make(map[Value]bool, len(values))
		for _, v := range values {
			if v == NA || v == "" {
				return Feature{}, fmt.Errorf("feature %q: %q is not a declarable value", name, v)
			}
			if seen[v] {
				return Feature{}, fmt.Errorf("feature %q: duplicate value %q", name, v)
			}
			seen[v] = true
		}
		f.values = slices.Clone(values)
	default:
		return Feature{}, fmt.Errorf("feature %q: unknown kind %q", name, kind)
	}
	if kind != Enum && len(values) > 0 {
		return Feature{}, fmt.Errorf("feature %q: %s features have an implied domain", name, kind)
	}
	if len(categories) == 0 {
		return Feature{}, fmt.Errorf("feature %q: applies to no category", name)
	}
	return f, nil
}

// Domain returns the declared values, excluding NA.
func (f Feature) Domain() []Value {
	return slices.Clone(f.values)
}

// Allows reports whether v is in the feature's domain. NA is always allowed.
func (f Feature) Allows(v Value) bool {
	return v == NA || slices.Contains(f.values, v)
}

// AppliesTo reports whether the feature is relevant to category c.
func (f Feature) AppliesTo(c Category) bool {
	return slices.Contains(f.Categories, c)
}

// FromSpec converts a declaration into a Feature.
func FromSpec(spec ir.FeatureSpec) (Feature, error) {
	values := make([]Value, len(spec.Values))
	for i, v := range spec.Values {
		values[i] = Value(v)
	}
	cats := make([]Category, len(spec.Categories))
	for i, c := range spec.Categories {
		cats[i] = Category(c)
	}

	f, err := NewFeature(spec.Name, Kind(spec.Kind), values, cats...)
	if err != nil {
		return Feature{}, err
	}
	f.Suprasegmental = spec.Suprasegmental
	f.Description = spec.Description
	if spec.Default != "" {
		f.Default = Value(spec.Default)
		if !f.Allows(f.Default) {
			return Feature{}, &InvalidFeatureValueError{Feature: f.Name, Value: f.Default, Domain: f.values}
		}
	}
	return f, nil
}
