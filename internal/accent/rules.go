package accent

import (
	"fmt"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
)

// Rule is one feature equivalence. Values listed in From are replaced by To;
// an empty From replaces every value of the feature.
type Rule struct {
	Feature string
	From    []feature.Value
	To      feature.Value
}

// Neutralize makes a feature non-contrastive: every value becomes NA.
func Neutralize(name string) Rule {
	return Rule{Feature: name, To: feature.NA}
}

// Merge collapses the listed values of a feature into to.
func Merge(name string, to feature.Value, from ...feature.Value) Rule {
	return Rule{Feature: name, From: from, To: to}
}

func ruleFromSpec(spec ir.RuleSpec) Rule {
	r := Rule{Feature: spec.Feature, To: feature.Value(spec.To)}
	if r.To == "" {
		r.To = feature.NA
	}
	for _, v := range spec.From {
		r.From = append(r.From, feature.Value(v))
	}
	return r
}

// valueMap is the compiled form of an accent's rules: per feature, the value
// each input value finally reduces to. Targets are fixed points, so applying
// the map twice equals applying it once.
type valueMap map[string]map[feature.Value]feature.Value

// compileRules resolves rules against the model. Two rules sending the same
// value to different targets are rejected, as are chains that loop back on
// themselves.
func compileRules(accent string, m *feature.Model, rules []Rule) (valueMap, error) {
	direct := make(valueMap)
	for _, r := range rules {
		f, ok := m.Feature(r.Feature)
		if !ok {
			return nil, &InvalidRuleError{Accent: accent, Feature: r.Feature, Message: "unknown feature"}
		}
		if !f.Allows(r.To) {
			return nil, &InvalidRuleError{Accent: accent, Feature: r.Feature,
				Message: fmt.Sprintf("target %q outside domain", r.To)}
		}
		from := r.From
		if len(from) == 0 {
			from = append(f.Domain(), feature.NA)
		}
		if direct[f.Name] == nil {
			direct[f.Name] = make(map[feature.Value]feature.Value)
		}
		for _, v := range from {
			if !f.Allows(v) {
				return nil, &InvalidRuleError{Accent: accent, Feature: r.Feature,
					Message: fmt.Sprintf("source %q outside domain", v)}
			}
			if prev, dup := direct[f.Name][v]; dup && prev != r.To {
				return nil, &InvalidRuleError{Accent: accent, Feature: r.Feature,
					Message: fmt.Sprintf("%q maps to both %q and %q", v, prev, r.To)}
			}
			direct[f.Name][v] = r.To
		}
	}

	out := make(valueMap, len(direct))
	for name, edges := range direct {
		out[name] = make(map[feature.Value]feature.Value, len(edges))
		for v := range edges {
			seen := map[feature.Value]bool{v: true}
			cur := v
			for {
				next, ok := edges[cur]
				if !ok || next == cur {
					break
				}
				if seen[next] {
					return nil, &InvalidRuleError{Accent: accent, Feature: name,
						Message: fmt.Sprintf("rules cycle through %q", next)}
				}
				seen[next] = true
				cur = next
			}
			out[name][v] = cur
		}
	}
	return out, nil
}

// apply rewrites b through the compiled map.
func (vm valueMap) apply(b feature.Bundle) (feature.Bundle, error) {
	if len(vm) == 0 {
		return b, nil
	}
	return b.Transform(func(f feature.Feature, v feature.Value) feature.Value {
		if to, ok := vm[f.Name][v]; ok {
			return to
		}
		return v
	})
}
