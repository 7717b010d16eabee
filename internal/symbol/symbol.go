package symbol

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Symbol is a base glyph plus a set of modifier names.
//
// Symbols are comparable values. The base glyph is held in NFC and the
// modifier names deduplicated and sorted, so two symbols built from the same
// glyph and the same modifiers in any order are ==.
type Symbol struct {
	base string
	mods string // sorted names joined by ","
}

// New builds a symbol from a base glyph and modifier names.
func New(base string, mods ...string) Symbol {
	names := slices.Clone(mods)
	slices.Sort(names)
	names = slices.Compact(names)
	if len(names) > 0 && names[0] == "" {
		names = names[1:]
	}
	return Symbol{base: norm.NFC.String(base), mods: strings.Join(names, ",")}
}

// ParseKey parses the String form of a symbol: "p" or "p[aspirated,long]".
func ParseKey(key string) Symbol {
	base, rest, ok := strings.Cut(key, "[")
	if !ok || !strings.HasSuffix(rest, "]") {
		return New(key)
	}
	rest = strings.TrimSuffix(rest, "]")
	if rest == "" {
		return New(base)
	}
	return New(base, strings.Split(rest, ",")...)
}

// Base returns the base glyph.
func (s Symbol) Base() string { return s.base }

// Modifiers returns the modifier names in sorted order.
func (s Symbol) Modifiers() []string {
	if s.mods == "" {
		return nil
	}
	return strings.Split(s.mods, ",")
}

// IsBare reports whether the symbol carries no modifiers.
func (s Symbol) IsBare() bool { return s.mods == "" }

// IsZero reports whether s is the zero Symbol.
func (s Symbol) IsZero() bool { return s.base == "" && s.mods == "" }

// With returns s with additional modifiers.
func (s Symbol) With(mods ...string) Symbol {
	return New(s.base, append(s.Modifiers(), mods...)...)
}

// Bare returns the symbol's base glyph without modifiers.
func (s Symbol) Bare() Symbol { return Symbol{base: s.base} }

// String returns the key form: the glyph, then the modifier names in
// brackets when there are any.
func (s Symbol) String() string {
	if s.mods == "" {
		return s.base
	}
	return s.base + "[" + s.mods + "]"
}
