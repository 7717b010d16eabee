package accent

import (
	"fmt"
	"slices"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/symbol"
)

// Definition is an accent's reduction policy.
//
// Rules decide which distinctions the accent ignores. A bundle is realizable
// when Realizable accepts it (nil accepts everything) and, if Phonemic is
// non-empty, its reduction equals the reduction of one of the listed symbols.
// Unrealizable bundles abort an inventory build unless Tolerate accepts them
// (nil tolerates nothing).
type Definition struct {
	Name        string
	Description string
	Rules       []Rule
	Phonemic    []symbol.Symbol
	Realizable  Predicate
	Tolerate    Predicate
}

// Accent is a compiled Definition bound to a registry. It is immutable.
type Accent struct {
	def      Definition
	reg      *symbol.Registry
	rules    valueMap
	phonemic map[string]bool // reduced bundle keys
}

// New compiles def against reg.
func New(reg *symbol.Registry, def Definition) (*Accent, error) {
	if def.Name == "" {
		return nil, &InvalidRuleError{Accent: "<unnamed>", Message: "name is required"}
	}
	rules, err := compileRules(def.Name, reg.Model(), def.Rules)
	if err != nil {
		return nil, err
	}

	a := &Accent{def: def, reg: reg, rules: rules}
	a.def.Rules = slices.Clone(def.Rules)
	a.def.Phonemic = slices.Clone(def.Phonemic)

	if len(def.Phonemic) > 0 {
		a.phonemic = make(map[string]bool, len(def.Phonemic))
		for _, s := range def.Phonemic {
			b, err := reg.Resolve(s)
			if err != nil {
				return nil, &InvalidRuleError{Accent: def.Name, Message: fmt.Sprintf("phonemic symbol %s", s), Cause: err}
			}
			reduced, err := rules.apply(b)
			if err != nil {
				return nil, &InvalidRuleError{Accent: def.Name, Message: fmt.Sprintf("phonemic symbol %s", s), Cause: err}
			}
			a.phonemic[reduced.Key()] = true
		}
	}
	return a, nil
}

// FromSpec compiles a declared accent. Phonemic entries are IPA and are
// parsed with the registry; Realizable and Tolerate are expr-lang
// expressions.
func FromSpec(reg *symbol.Registry, spec ir.AccentSpec) (*Accent, error) {
	def := Definition{Name: spec.Name, Description: spec.Description}
	for _, r := range spec.Rules {
		def.Rules = append(def.Rules, ruleFromSpec(r))
	}
	for _, ipa := range spec.Phonemic {
		s, err := reg.Parse(ipa)
		if err != nil {
			return nil, &InvalidRuleError{Accent: spec.Name, Message: "phonemic symbol", Cause: err}
		}
		def.Phonemic = append(def.Phonemic, s)
	}

	var err error
	if spec.Realizable != "" {
		if def.Realizable, err = Expr(spec.Realizable, reg.Model()); err != nil {
			return nil, &InvalidRuleError{Accent: spec.Name, Message: "realizable", Cause: err}
		}
	}
	if spec.Tolerate != "" {
		if def.Tolerate, err = Expr(spec.Tolerate, reg.Model()); err != nil {
			return nil, &InvalidRuleError{Accent: spec.Name, Message: "tolerate", Cause: err}
		}
	}
	return New(reg, def)
}

// Name returns the accent's name.
func (a *Accent) Name() string { return a.def.Name }

// Description returns the accent's description.
func (a *Accent) Description() string { return a.def.Description }

// Definition returns a copy of the definition the accent was compiled from.
func (a *Accent) Definition() Definition {
	def := a.def
	def.Rules = slices.Clone(a.def.Rules)
	def.Phonemic = slices.Clone(a.def.Phonemic)
	return def
}

// Registry returns the registry the accent is bound to.
func (a *Accent) Registry() *symbol.Registry { return a.reg }

// Reduce applies the accent's equivalence rules. It is idempotent:
// Reduce(Reduce(b)) == Reduce(b).
func (a *Accent) Reduce(b feature.Bundle) (feature.Bundle, error) {
	if b.Model() != a.reg.Model() {
		return feature.Bundle{}, fmt.Errorf("accent %s: bundle %s is not from this registry", a.def.Name, b)
	}
	return a.rules.apply(b)
}

// Realizable reports whether the accent can produce the universal bundle b.
func (a *Accent) Realizable(b feature.Bundle) (bool, error) {
	if a.def.Realizable != nil {
		ok, err := a.def.Realizable(b)
		if err != nil || !ok {
			return false, err
		}
	}
	if a.phonemic == nil {
		return true, nil
	}
	reduced, err := a.Reduce(b)
	if err != nil {
		return false, err
	}
	return a.phonemic[reduced.Key()], nil
}

// Tolerates reports whether an unrealizable bundle is an accepted gap.
func (a *Accent) Tolerates(b feature.Bundle) (bool, error) {
	if a.def.Tolerate == nil {
		return false, nil
	}
	return a.def.Tolerate(b)
}
