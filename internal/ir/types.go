package ir

// TableSpec is a compiled authoritative table: the closed feature set, the
// base glyphs, the modifier kinds and the accents shipped with the table.
type TableSpec struct {
	Version   string         `json:"version" yaml:"version"`
	Features  []FeatureSpec  `json:"features" yaml:"features"`
	Glyphs    []GlyphSpec    `json:"glyphs" yaml:"glyphs"`
	Modifiers []ModifierSpec `json:"modifiers" yaml:"modifiers"`
	Accents   []AccentSpec   `json:"accents,omitempty" yaml:"accents,omitempty"`
}

// FeatureSpec declares a distinctive feature and its value domain.
type FeatureSpec struct {
	Name           string   `json:"name" yaml:"name"`
	Kind           string   `json:"kind" yaml:"kind"`                         // "binary", "ternary" or "enum"
	Values         []string `json:"values,omitempty" yaml:"values,omitempty"` // enum domain only
	Categories     []string `json:"categories" yaml:"categories"`
	Suprasegmental bool     `json:"suprasegmental,omitempty" yaml:"suprasegmental,omitempty"`
	Default        string   `json:"default,omitempty" yaml:"default,omitempty"` // empty means "na"
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// GlyphSpec declares a base glyph and its bare feature values.
// Features not listed take the feature default (or "na").
type GlyphSpec struct {
	Glyph       string            `json:"glyph" yaml:"glyph"`
	Category    string            `json:"category" yaml:"category"`
	Features    map[string]string `json:"features" yaml:"features"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// ModifierSpec declares a diacritic and the feature assignments it applies.
type ModifierSpec struct {
	Name        string       `json:"name" yaml:"name"`
	Diacritic   string       `json:"diacritic" yaml:"diacritic"`
	Priority    int64        `json:"priority" yaml:"priority"`
	Categories  []string     `json:"categories" yaml:"categories"`
	Effects     []EffectSpec `json:"effects" yaml:"effects"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}

// EffectSpec assigns Value to Feature.
type EffectSpec struct {
	Feature string `json:"feature" yaml:"feature"`
	Value   string `json:"value" yaml:"value"`
}

// AccentSpec declares an accent's reduction policy.
//
// Realizable and Tolerate are expr-lang boolean expressions evaluated against
// the universal bundle ("category" plus one variable per feature). An empty
// Realizable accepts every bundle; an empty Tolerate tolerates nothing.
type AccentSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []RuleSpec `json:"rules,omitempty" yaml:"rules,omitempty"`
	Phonemic    []string   `json:"phonemic,omitempty" yaml:"phonemic,omitempty"` // IPA symbols
	Realizable  string     `json:"realizable,omitempty" yaml:"realizable,omitempty"`
	Tolerate    string     `json:"tolerate,omitempty" yaml:"tolerate,omitempty"`
}

// RuleSpec is one equivalence rule. A rule with an empty From list
// neutralizes the feature (every value maps to To, which defaults to "na").
type RuleSpec struct {
	Feature string   `json:"feature" yaml:"feature"`
	From    []string `json:"from,omitempty" yaml:"from,omitempty"`
	To      string   `json:"to,omitempty" yaml:"to,omitempty"`
}

// ValidFeatureKinds defines allowed feature kinds.
var ValidFeatureKinds = map[string]bool{
	"binary":  true,
	"ternary": true,
	"enum":    true,
}

// ValidCategories defines the segment categories a feature or glyph may name.
var ValidCategories = map[string]bool{
	"consonant": true,
	"vowel":     true,
}

// NotApplicable is the explicit value of a feature that does not apply.
const NotApplicable = "na"
