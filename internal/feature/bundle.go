package feature

import (
	"slices"
	"strings"
)

// Bundle is an immutable mapping from every feature of a category to a value.
//
// A bundle is always total over its category: irrelevant or unspecified
// features hold NA explicitly. Bundles are compared by value with Equal; the
// Key string is a stable identity suitable for map keys.
type Bundle struct {
	model *Model
	cat   Category
	vals  []Value
	key   string
}

func newBundle(m *Model, c Category, vals []Value) Bundle {
	var sb strings.Builder
	sb.WriteString(string(c))
	sb.WriteByte(':')
	for i, v := range vals {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(v))
	}
	return Bundle{model: m, cat: c, vals: vals, key: sb.String()}
}

// IsZero reports whether b is the zero Bundle.
func (b Bundle) IsZero() bool { return b.model == nil }

// Model returns the model the bundle belongs to.
func (b Bundle) Model() *Model { return b.model }

// Category returns the bundle's segment category.
func (b Bundle) Category() Category { return b.cat }

// Key returns a stable string identity: category plus values in model order.
func (b Bundle) Key() string { return b.key }

// Equal reports whether two bundles come from the same model and carry the
// same values.
func (b Bundle) Equal(o Bundle) bool {
	return b.model == o.model && b.key == o.key
}

// Get returns the value of the named feature. ok is false when the feature
// does not apply to the bundle's category.
func (b Bundle) Get(name string) (v Value, ok bool) {
	if b.model == nil {
		return NA, false
	}
	s, ok := b.model.slot(b.cat, name)
	if !ok {
		return NA, false
	}
	return b.vals[s], true
}

// Value returns the value of the named feature, NA when it does not apply.
func (b Bundle) Value(name string) Value {
	v, _ := b.Get(name)
	return v
}

// With returns a copy of b with the named feature set to v.
func (b Bundle) With(name string, v Value) (Bundle, error) {
	if b.model == nil {
		return Bundle{}, errZeroBundle
	}
	if err := b.model.Validate(name, v); err != nil {
		return Bundle{}, err
	}
	s, ok := b.model.slot(b.cat, name)
	if !ok {
		return Bundle{}, &NotApplicableError{Feature: name, Category: b.cat}
	}
	if b.vals[s] == v {
		return b, nil
	}
	vals := slices.Clone(b.vals)
	vals[s] = v
	return newBundle(b.model, b.cat, vals), nil
}

// Transform returns a copy of b with fn applied to every feature value.
// Results are validated against each feature's domain.
func (b Bundle) Transform(fn func(f Feature, v Value) Value) (Bundle, error) {
	if b.model == nil {
		return Bundle{}, errZeroBundle
	}
	vals := make([]Value, len(b.vals))
	changed := false
	for s, j := range b.model.layout[b.cat] {
		f := b.model.features[j]
		nv := fn(f, b.vals[s])
		if !f.Allows(nv) {
			return Bundle{}, &InvalidFeatureValueError{Feature: f.Name, Value: nv, Domain: f.Domain()}
		}
		vals[s] = nv
		changed = changed || nv != b.vals[s]
	}
	if !changed {
		return b, nil
	}
	return newBundle(b.model, b.cat, vals), nil
}

// Each calls fn for every feature of the bundle's category in model order.
func (b Bundle) Each(fn func(f Feature, v Value)) {
	if b.model == nil {
		return
	}
	for s, j := range b.model.layout[b.cat] {
		fn(b.model.features[j], b.vals[s])
	}
}

// Map returns the bundle as a feature name -> value map.
func (b Bundle) Map() map[string]string {
	out := make(map[string]string, len(b.vals))
	b.Each(func(f Feature, v Value) {
		out[f.Name] = string(v)
	})
	return out
}

// Marks flattens the bundle into a sorted set of feature marks: "+voice",
// "-nasal" and "0round" for binary and ternary features, "place=velar" for
// enumerated ones. NA features contribute nothing.
func (b Bundle) Marks() []string {
	var marks []string
	b.Each(func(f Feature, v Value) {
		switch {
		case v == NA:
		case f.Kind == Enum:
			marks = append(marks, f.Name+"="+string(v))
		default:
			marks = append(marks, string(v)+f.Name)
		}
	})
	slices.Sort(marks)
	return marks
}

// String renders the bundle as "[category feature=value ...]" omitting NA.
func (b Bundle) String() string {
	if b.model == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(string(b.cat))
	b.Each(func(f Feature, v Value) {
		if v == NA {
			return
		}
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(string(v))
	})
	sb.WriteByte(']')
	return sb.String()
}
