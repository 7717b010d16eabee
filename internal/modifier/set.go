package modifier

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
)

// Set is the closed collection of modifiers of a table, held in canonical
// (priority) order. It is immutable and safe for concurrent use.
type Set struct {
	model       *feature.Model
	mods        []Modifier
	byName      map[string]int
	byDiacritic map[string]int
}

// NewSet validates mods against the feature model and sorts them by
// priority.
//
// Every effect must name a feature of the model with a value in its domain,
// and the feature must apply to every category the modifier claims.
func NewSet(model *feature.Model, mods ...Modifier) (*Set, error) {
	s := &Set{
		model:       model,
		mods:        slices.Clone(mods),
		byName:      make(map[string]int, len(mods)),
		byDiacritic: make(map[string]int, len(mods)),
	}
	slices.SortStableFunc(s.mods, func(a, b Modifier) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	for i, m := range s.mods {
		if m.Name == "" {
			return nil, fmt.Errorf("modifier with priority %d: name is required", m.Priority)
		}
		if _, dup := s.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate modifier %q", m.Name)
		}
		if i > 0 && s.mods[i-1].Priority == m.Priority {
			return nil, fmt.Errorf("modifiers %q and %q share priority %d", s.mods[i-1].Name, m.Name, m.Priority)
		}
		if m.Diacritic == "" {
			return nil, fmt.Errorf("modifier %q: diacritic is required", m.Name)
		}
		if other, dup := s.byDiacritic[m.Diacritic]; dup {
			return nil, fmt.Errorf("modifiers %q and %q share diacritic %q", s.mods[other].Name, m.Name, m.Diacritic)
		}
		if len(m.Categories) == 0 {
			return nil, fmt.Errorf("modifier %q: applies to no category", m.Name)
		}
		if len(m.Effects) == 0 {
			return nil, fmt.Errorf("modifier %q: declares no effects", m.Name)
		}
		if err := s.checkEffects(m); err != nil {
			return nil, err
		}
		s.byName[m.Name] = i
		s.byDiacritic[m.Diacritic] = i
	}
	return s, nil
}

func (s *Set) checkEffects(m Modifier) error {
	seen := make(map[string]bool, len(m.Effects))
	for _, e := range m.Effects {
		if seen[e.Feature] {
			return fmt.Errorf("modifier %q: feature %s assigned twice", m.Name, e.Feature)
		}
		seen[e.Feature] = true

		if err := s.model.Validate(e.Feature, e.Value); err != nil {
			return fmt.Errorf("modifier %q: %w", m.Name, err)
		}
		f, _ := s.model.Feature(e.Feature)
		for _, c := range m.Categories {
			if !slices.Contains(feature.Categories, c) {
				return fmt.Errorf("modifier %q: unknown category %q", m.Name, c)
			}
			if !f.AppliesTo(c) {
				return fmt.Errorf("modifier %q: %w", m.Name, &feature.NotApplicableError{Feature: f.Name, Category: c})
			}
		}
	}
	return nil
}

// SetFromSpec builds a Set from table declarations.
func SetFromSpec(model *feature.Model, specs []ir.ModifierSpec) (*Set, error) {
	mods := make([]Modifier, len(specs))
	for i, spec := range specs {
		mods[i] = FromSpec(spec)
	}
	return NewSet(model, mods...)
}

// All returns every modifier in canonical order.
func (s *Set) All() []Modifier { return slices.Clone(s.mods) }

// Len returns the number of modifiers.
func (s *Set) Len() int { return len(s.mods) }

// Get looks up a modifier by name.
func (s *Set) Get(name string) (Modifier, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Modifier{}, false
	}
	return s.mods[i], true
}

// ByDiacritic looks up a modifier by its diacritic.
func (s *Set) ByDiacritic(d string) (Modifier, bool) {
	i, ok := s.byDiacritic[d]
	if !ok {
		return Modifier{}, false
	}
	return s.mods[i], true
}

// For returns the modifiers applicable to category c in canonical order.
func (s *Set) For(c feature.Category) []Modifier {
	var out []Modifier
	for _, m := range s.mods {
		if m.AppliesTo(c) {
			out = append(out, m)
		}
	}
	return out
}

// Canonical resolves names to modifiers, drops duplicates and returns them
// in canonical order.
func (s *Set) Canonical(names ...string) ([]Modifier, error) {
	idx := make([]int, 0, len(names))
	for _, name := range names {
		i, ok := s.byName[name]
		if !ok {
			return nil, &UnknownModifierError{Name: name}
		}
		idx = append(idx, i)
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)

	out := make([]Modifier, len(idx))
	for j, i := range idx {
		out[j] = s.mods[i]
	}
	return out, nil
}

// Check verifies that canonically ordered mods can be composed on a bundle
// of category c. Applicability is checked before conflicts; within each
// check the first offender in canonical order is reported.
func Check(c feature.Category, mods []Modifier) error {
	for _, m := range mods {
		if !m.AppliesTo(c) {
			return &NotApplicableError{Modifier: m.Name, Category: c}
		}
	}
	for i := range mods {
		for j := i + 1; j < len(mods); j++ {
			if f, ok := Conflict(mods[i], mods[j]); ok {
				return &ConflictError{First: mods[i].Name, Second: mods[j].Name, Feature: f}
			}
		}
	}
	return nil
}

// Compose applies the named modifiers to b in canonical order. The result
// depends only on the set of names, never on their order or repetition.
func (s *Set) Compose(b feature.Bundle, names ...string) (feature.Bundle, error) {
	mods, err := s.Canonical(names...)
	if err != nil {
		return feature.Bundle{}, err
	}
	return ComposeCanonical(b, mods)
}

// ComposeCanonical applies mods, already in canonical order, to b.
func ComposeCanonical(b feature.Bundle, mods []Modifier) (feature.Bundle, error) {
	if err := Check(b.Category(), mods); err != nil {
		return feature.Bundle{}, err
	}
	out := b
	for _, m := range mods {
		var err error
		out, err = m.Apply(out)
		if err != nil {
			return feature.Bundle{}, fmt.Errorf("apply %s: %w", m.Name, err)
		}
	}
	return out, nil
}
