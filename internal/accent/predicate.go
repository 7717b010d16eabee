package accent

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/roach88/sound/internal/feature"
)

// Predicate classifies universal bundles.
type Predicate func(b feature.Bundle) (bool, error)

// Always accepts every bundle.
func Always(feature.Bundle) (bool, error) { return true, nil }

// natural classes exposed to expressions as booleans
var classes = map[string]func(feature.Bundle) bool{
	"is_vowel":       feature.IsVowel,
	"is_consonant":   feature.IsConsonant,
	"is_semivowel":   feature.IsSemivowel,
	"is_voiced":      feature.IsVoiced,
	"is_stop":        feature.IsStop,
	"is_affricate":   feature.IsAffricate,
	"is_fricative":   feature.IsFricative,
	"is_approximant": feature.IsApproximant,
	"is_nasal":       feature.IsNasal,
	"is_lateral":     feature.IsLateral,
}

// Expr compiles a boolean expr-lang expression into a Predicate.
//
// The expression sees "category" ("consonant" or "vowel"), one string
// variable per feature of the model holding its value ("na" where the feature
// does not apply), and the natural classes as booleans (is_vowel, is_stop,
// ...). For example:
//
//	category == "vowel" || aspirated != "+"
//	!(is_stop && voice == "+" && place == "uvular")
//
// Unknown identifiers are compile errors.
func Expr(src string, m *feature.Model) (Predicate, error) {
	prg, err := expr.Compile(src, expr.Env(envTemplate(m)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return exprPredicate(prg), nil
}

func exprPredicate(prg *vm.Program) Predicate {
	return func(b feature.Bundle) (bool, error) {
		if b.IsZero() {
			return false, errors.New("predicate on zero bundle")
		}
		out, err := expr.Run(prg, env(b))
		if err != nil {
			return false, err
		}
		ok, isBool := out.(bool)
		if !isBool {
			return false, fmt.Errorf("predicate returned %T, want bool", out)
		}
		return ok, nil
	}
}

func envTemplate(m *feature.Model) map[string]any {
	vars := make(map[string]any, len(m.Features())+len(classes)+1)
	for _, f := range m.Features() {
		vars[f.Name] = ""
	}
	for name := range classes {
		vars[name] = false
	}
	vars["category"] = ""
	return vars
}

func env(b feature.Bundle) map[string]any {
	m := b.Model()
	vars := make(map[string]any, len(m.Features())+len(classes)+1)
	for _, f := range m.Features() {
		vars[f.Name] = string(feature.NA)
	}
	b.Each(func(f feature.Feature, v feature.Value) {
		vars[f.Name] = string(v)
	})
	for name, is := range classes {
		vars[name] = is(b)
	}
	vars["category"] = string(b.Category())
	return vars
}
