package feature

import (
	"fmt"
	"slices"

	"github.com/roach88/sound/internal/ir"
)

// Model is the closed, versioned set of features. It is immutable after
// NewModel returns and safe for concurrent use.
type Model struct {
	version  string
	features []Feature
	byName   map[string]int

	// per category: positions into features, in model order
	layout map[Category][]int
	// per category: feature name -> slot in a bundle of that category
	slots map[Category]map[string]int
}

// NewModel builds a model from features in declaration order.
func NewModel(version string, features ...Feature) (*Model, error) {
	m := &Model{
		version:  version,
		features: slices.Clone(features),
		byName:   make(map[string]int, len(features)),
		layout:   make(map[Category][]int),
		slots:    make(map[Category]map[string]int),
	}

	for i, f := range m.features {
		if f.Name == "" {
			return nil, fmt.Errorf("feature[%d]: name is required", i)
		}
		if _, dup := m.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate feature %q", f.Name)
		}
		m.byName[f.Name] = i

		for _, c := range f.Categories {
			if !slices.Contains(Categories, c) {
				return nil, fmt.Errorf("feature %q: unknown category %q", f.Name, c)
			}
			if m.slots[c] == nil {
				m.slots[c] = make(map[string]int)
			}
			m.slots[c][f.Name] = len(m.layout[c])
			m.layout[c] = append(m.layout[c], i)
		}
	}
	return m, nil
}

// ModelFromSpec builds a model from table declarations.
func ModelFromSpec(version string, specs []ir.FeatureSpec) (*Model, error) {
	features := make([]Feature, 0, len(specs))
	for _, spec := range specs {
		f, err := FromSpec(spec)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return NewModel(version, features...)
}

// Version returns the table version the model was built from.
func (m *Model) Version() string { return m.version }

// Features returns every feature in model order.
func (m *Model) Features() []Feature { return slices.Clone(m.features) }

// Feature looks up a feature by name.
func (m *Model) Feature(name string) (Feature, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Feature{}, false
	}
	return m.features[i], true
}

// For returns the features relevant to category c, in model order.
func (m *Model) For(c Category) []Feature {
	idx := m.layout[c]
	out := make([]Feature, len(idx))
	for i, j := range idx {
		out[i] = m.features[j]
	}
	return out
}

// Validate confirms that v is in the domain of the named feature.
func (m *Model) Validate(name string, v Value) error {
	f, ok := m.Feature(name)
	if !ok {
		return &UnknownFeatureError{Feature: name}
	}
	if !f.Allows(v) {
		return &InvalidFeatureValueError{Feature: name, Value: v, Domain: f.Domain()}
	}
	return nil
}

// NewBundle builds a bundle of category c. Features of c missing from values
// take their default (NA unless declared otherwise). A value for a feature
// that does not apply to c is an error, never silently dropped.
func (m *Model) NewBundle(c Category, values map[string]Value) (Bundle, error) {
	idx, ok := m.layout[c]
	if !ok {
		return Bundle{}, fmt.Errorf("model has no features for category %q", c)
	}

	for name, v := range values {
		if err := m.Validate(name, v); err != nil {
			return Bundle{}, err
		}
		if _, applies := m.slots[c][name]; !applies {
			return Bundle{}, &NotApplicableError{Feature: name, Category: c}
		}
	}

	vals := make([]Value, len(idx))
	for slot, j := range idx {
		f := m.features[j]
		if v, set := values[f.Name]; set {
			vals[slot] = v
		} else {
			vals[slot] = f.Default
		}
	}
	return newBundle(m, c, vals), nil
}

// MustBundle is like NewBundle but panics on error.
// Use only in tests or for statically known bundles.
func (m *Model) MustBundle(c Category, values map[string]Value) Bundle {
	b, err := m.NewBundle(c, values)
	if err != nil {
		panic(err)
	}
	return b
}

// slot returns the position of feature name within bundles of category c.
func (m *Model) slot(c Category, name string) (int, bool) {
	s, ok := m.slots[c][name]
	return s, ok
}
