package modifier

import (
	"slices"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
)

// Effect assigns Value to Feature.
type Effect struct {
	Feature string
	Value   feature.Value
}

// Modifier is a diacritic kind and the feature assignments it applies.
//
// Priority fixes the canonical application order: lower priorities apply
// first, and no two modifiers of a Set share a priority.
type Modifier struct {
	Name        string
	Diacritic   string
	Priority    int64
	Categories  []feature.Category
	Effects     []Effect
	Description string
}

// AppliesTo reports whether the modifier may be applied to category c.
func (m Modifier) AppliesTo(c feature.Category) bool {
	return slices.Contains(m.Categories, c)
}

// Apply returns b with the modifier's effects assigned.
func (m Modifier) Apply(b feature.Bundle) (feature.Bundle, error) {
	if !m.AppliesTo(b.Category()) {
		return feature.Bundle{}, &NotApplicableError{Modifier: m.Name, Category: b.Category()}
	}
	out := b
	for _, e := range m.Effects {
		var err error
		out, err = out.With(e.Feature, e.Value)
		if err != nil {
			return feature.Bundle{}, err
		}
	}
	return out, nil
}

// Sets reports the value the modifier assigns to the named feature.
func (m Modifier) Sets(name string) (feature.Value, bool) {
	for _, e := range m.Effects {
		if e.Feature == name {
			return e.Value, true
		}
	}
	return "", false
}

// Conflict reports the first feature a and b assign different values to.
func Conflict(a, b Modifier) (string, bool) {
	for _, e := range a.Effects {
		if v, ok := b.Sets(e.Feature); ok && v != e.Value {
			return e.Feature, true
		}
	}
	return "", false
}

// FromSpec converts a declaration into a Modifier.
func FromSpec(spec ir.ModifierSpec) Modifier {
	m := Modifier{
		Name:        spec.Name,
		Diacritic:   spec.Diacritic,
		Priority:    spec.Priority,
		Categories:  make([]feature.Category, len(spec.Categories)),
		Effects:     make([]Effect, len(spec.Effects)),
		Description: spec.Description,
	}
	for i, c := range spec.Categories {
		m.Categories[i] = feature.Category(c)
	}
	for i, e := range spec.Effects {
		m.Effects[i] = Effect{Feature: e.Feature, Value: feature.Value(e.Value)}
	}
	return m
}
