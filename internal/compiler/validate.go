package compiler

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sound/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General (E200-E201)
	ErrMissingField  = "E200" // required field is empty
	ErrDuplicateName = "E201" // duplicate feature/glyph/modifier/accent name

	// FeatureSpec errors (E210-E214)
	ErrInvalidFeatureKind = "E210" // kind is not binary, ternary or enum
	ErrInvalidDomain      = "E211" // enum domain too small, duplicated or reserved value
	ErrInvalidDefault     = "E212" // default outside the domain
	ErrUnknownCategory    = "E213" // category is not consonant or vowel

	// GlyphSpec errors (E220-E221)
	ErrInvalidGlyphValue = "E220" // unknown, inapplicable or out of domain value

	// ModifierSpec errors (E230-E233)
	ErrInvalidEffect     = "E230" // effect feature unknown, value out of domain or not applicable
	ErrDuplicatePriority = "E231" // two modifiers share a priority
	ErrInvalidDiacritic  = "E232" // diacritic is not one character or is reused

	// AccentSpec errors (E240)
	ErrInvalidAccentRule = "E240" // rule names an unknown feature or value
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// featureInfo is the part of a declared feature other checks consult.
type featureInfo struct {
	domain     []string
	categories []string
}

func (f featureInfo) allows(v string) bool {
	return v == ir.NotApplicable || slices.Contains(f.domain, v)
}

func (f featureInfo) appliesTo(c string) bool {
	return slices.Contains(f.categories, c)
}

// Validate validates a compiled table against the semantic rules CUE cannot
// express. Returns all errors found (does not fail-fast).
func Validate(t ir.TableSpec) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(t.Version) == "" {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: "version is required",
			Code:    ErrMissingField,
		})
	}

	features, ferrs := validateFeatures(t.Features)
	errs = append(errs, ferrs...)
	errs = append(errs, validateGlyphs(t.Glyphs, features)...)
	errs = append(errs, validateModifiers(t.Modifiers, t.Glyphs, features)...)

	names := make(map[string]bool)
	for i, a := range t.Accents {
		prefix := fmt.Sprintf("accents[%d]", i)
		if names[a.Name] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate accent name: %q", a.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[a.Name] = true
		for _, e := range ValidateAccent(a, t.Features) {
			e.Field = prefix + "." + e.Field
			errs = append(errs, e)
		}
	}
	return errs
}

// ValidateAccent checks an accent declaration against the table's features.
// Phonemic symbols and expressions need a registry and are checked when the
// accent is compiled.
func ValidateAccent(a ir.AccentSpec, declared []ir.FeatureSpec) []ValidationError {
	var errs []ValidationError
	features, _ := validateFeatures(declared)

	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "accent name is required",
			Code:    ErrMissingField,
		})
	}

	for i, r := range a.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		f, ok := features[r.Feature]
		if !ok {
			errs = append(errs, ValidationError{
				Field:   field + ".feature",
				Message: fmt.Sprintf("unknown feature %q", r.Feature),
				Code:    ErrInvalidAccentRule,
			})
			continue
		}
		if r.To != "" && !f.allows(r.To) {
			errs = append(errs, ValidationError{
				Field:   field + ".to",
				Message: fmt.Sprintf("%q is not a value of %s", r.To, r.Feature),
				Code:    ErrInvalidAccentRule,
			})
		}
		for j, v := range r.From {
			if !f.allows(v) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.from[%d]", field, j),
					Message: fmt.Sprintf("%q is not a value of %s", v, r.Feature),
					Code:    ErrInvalidAccentRule,
				})
			}
		}
	}

	for i, s := range a.Phonemic {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("phonemic[%d]", i),
				Message: "phonemic symbol is empty",
				Code:    ErrMissingField,
			})
		}
	}
	return errs
}

// validateFeatures checks feature declarations and returns the usable ones
// by name.
func validateFeatures(specs []ir.FeatureSpec) (map[string]featureInfo, []ValidationError) {
	var errs []ValidationError
	features := make(map[string]featureInfo, len(specs))

	for i, f := range specs {
		prefix := fmt.Sprintf("features[%d]", i)

		if strings.TrimSpace(f.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: "feature name is required",
				Code:    ErrMissingField,
			})
		}
		if _, dup := features[f.Name]; dup {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate feature name: %q", f.Name),
				Code:    ErrDuplicateName,
			})
		}

		var domain []string
		switch f.Kind {
		case "binary":
			domain = []string{"+", "-"}
		case "ternary":
			domain = []string{"+", "-", "0"}
		case "enum":
			domain = f.Values
		}
		if !ir.ValidFeatureKinds[f.Kind] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".kind",
				Message: fmt.Sprintf("invalid kind %q, must be \"binary\", \"ternary\" or \"enum\"", f.Kind),
				Code:    ErrInvalidFeatureKind,
			})
		}
		errs = append(errs, validateDomain(prefix, f)...)

		for j, c := range f.Categories {
			if !ir.ValidCategories[c] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.categories[%d]", prefix, j),
					Message: fmt.Sprintf("unknown category %q", c),
					Code:    ErrUnknownCategory,
				})
			}
		}
		if len(f.Categories) == 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".categories",
				Message: fmt.Sprintf("feature %q applies to no category", f.Name),
				Code:    ErrMissingField,
			})
		}

		info := featureInfo{domain: domain, categories: f.Categories}
		if f.Default != "" && !info.allows(f.Default) {
			errs = append(errs, ValidationError{
				Field:   prefix + ".default",
				Message: fmt.Sprintf("default %q is not a value of %s", f.Default, f.Name),
				Code:    ErrInvalidDefault,
			})
		}
		if _, dup := features[f.Name]; !dup {
			features[f.Name] = info
		}
	}
	return features, errs
}

func validateDomain(prefix string, f ir.FeatureSpec) []ValidationError {
	var errs []ValidationError
	if f.Kind != "enum" {
		if len(f.Values) > 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".values",
				Message: fmt.Sprintf("%s features have an implied domain", f.Kind),
				Code:    ErrInvalidDomain,
			})
		}
		return errs
	}

	if len(f.Values) < 2 {
		errs = append(errs, ValidationError{
			Field:   prefix + ".values",
			Message: "enum domain needs at least two values",
			Code:    ErrInvalidDomain,
		})
	}
	seen := make(map[string]bool, len(f.Values))
	for j, v := range f.Values {
		field := fmt.Sprintf("%s.values[%d]", prefix, j)
		switch {
		case v == "" || v == ir.NotApplicable:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is not a declarable value", v),
				Code:    ErrInvalidDomain,
			})
		case seen[v]:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate value %q", v),
				Code:    ErrInvalidDomain,
			})
		}
		seen[v] = true
	}
	return errs
}

func validateGlyphs(glyphs []ir.GlyphSpec, features map[string]featureInfo) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(glyphs))

	for i, g := range glyphs {
		prefix := fmt.Sprintf("glyphs[%d]", i)

		glyph := norm.NFC.String(g.Glyph)
		if glyph == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".glyph",
				Message: "glyph is required",
				Code:    ErrMissingField,
			})
		} else if seen[glyph] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".glyph",
				Message: fmt.Sprintf("duplicate glyph: %q", glyph),
				Code:    ErrDuplicateName,
			})
		}
		seen[glyph] = true

		if !ir.ValidCategories[g.Category] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".category",
				Message: fmt.Sprintf("unknown category %q", g.Category),
				Code:    ErrUnknownCategory,
			})
			continue
		}

		names := make([]string, 0, len(g.Features))
		for name := range g.Features {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			v := g.Features[name]
			field := fmt.Sprintf("%s.features.%s", prefix, name)
			f, ok := features[name]
			switch {
			case !ok:
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("unknown feature %q", name),
					Code:    ErrInvalidGlyphValue,
				})
			case !f.appliesTo(g.Category):
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("feature %q does not apply to %s glyph %q", name, g.Category, g.Glyph),
					Code:    ErrInvalidGlyphValue,
				})
			case !f.allows(v):
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("%q is not a value of %s", v, name),
					Code:    ErrInvalidGlyphValue,
				})
			}
		}
	}
	return errs
}

func validateModifiers(mods []ir.ModifierSpec, glyphs []ir.GlyphSpec, features map[string]featureInfo) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool, len(mods))
	priorities := make(map[int64]string, len(mods))
	diacritics := make(map[string]string, len(mods))

	glyphSet := make(map[string]bool, len(glyphs))
	for _, g := range glyphs {
		glyphSet[norm.NFC.String(g.Glyph)] = true
	}

	for i, m := range mods {
		prefix := fmt.Sprintf("modifiers[%d]", i)

		switch {
		case strings.TrimSpace(m.Name) == "":
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: "modifier name is required",
				Code:    ErrMissingField,
			})
		case names[m.Name]:
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate modifier name: %q", m.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[m.Name] = true

		if prev, dup := priorities[m.Priority]; dup {
			errs = append(errs, ValidationError{
				Field:   prefix + ".priority",
				Message: fmt.Sprintf("priority %d already used by %q", m.Priority, prev),
				Code:    ErrDuplicatePriority,
			})
		} else {
			priorities[m.Priority] = m.Name
		}

		d := norm.NFC.String(m.Diacritic)
		switch {
		case utf8.RuneCountInString(norm.NFD.String(m.Diacritic)) != 1:
			errs = append(errs, ValidationError{
				Field:   prefix + ".diacritic",
				Message: fmt.Sprintf("diacritic %q must be a single character", m.Diacritic),
				Code:    ErrInvalidDiacritic,
			})
		case diacritics[d] != "":
			errs = append(errs, ValidationError{
				Field:   prefix + ".diacritic",
				Message: fmt.Sprintf("diacritic %q already used by %q", m.Diacritic, diacritics[d]),
				Code:    ErrInvalidDiacritic,
			})
		case glyphSet[d]:
			errs = append(errs, ValidationError{
				Field:   prefix + ".diacritic",
				Message: fmt.Sprintf("diacritic %q is also a base glyph", m.Diacritic),
				Code:    ErrInvalidDiacritic,
			})
		}
		if d != "" && diacritics[d] == "" {
			diacritics[d] = m.Name
		}

		if len(m.Categories) == 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".categories",
				Message: fmt.Sprintf("modifier %q applies to no category", m.Name),
				Code:    ErrMissingField,
			})
		}
		for j, c := range m.Categories {
			if !ir.ValidCategories[c] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.categories[%d]", prefix, j),
					Message: fmt.Sprintf("unknown category %q", c),
					Code:    ErrUnknownCategory,
				})
			}
		}

		if len(m.Effects) == 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".effects",
				Message: fmt.Sprintf("modifier %q has no effects", m.Name),
				Code:    ErrMissingField,
			})
		}
		assigned := make(map[string]bool, len(m.Effects))
		for j, e := range m.Effects {
			field := fmt.Sprintf("%s.effects[%d]", prefix, j)
			f, ok := features[e.Feature]
			if !ok {
				errs = append(errs, ValidationError{
					Field:   field + ".feature",
					Message: fmt.Sprintf("unknown feature %q", e.Feature),
					Code:    ErrInvalidEffect,
				})
				continue
			}
			if assigned[e.Feature] {
				errs = append(errs, ValidationError{
					Field:   field + ".feature",
					Message: fmt.Sprintf("feature %q assigned twice", e.Feature),
					Code:    ErrInvalidEffect,
				})
			}
			assigned[e.Feature] = true
			if !f.allows(e.Value) {
				errs = append(errs, ValidationError{
					Field:   field + ".value",
					Message: fmt.Sprintf("%q is not a value of %s", e.Value, e.Feature),
					Code:    ErrInvalidEffect,
				})
			}
			for _, c := range m.Categories {
				if ir.ValidCategories[c] && !f.appliesTo(c) {
					errs = append(errs, ValidationError{
						Field:   field + ".feature",
						Message: fmt.Sprintf("feature %q does not apply to %s, which %q claims", e.Feature, c, m.Name),
						Code:    ErrInvalidEffect,
					})
				}
			}
		}
	}
	return errs
}
