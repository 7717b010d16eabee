// Package testutil holds fixtures shared by package tests.
package testutil

import "github.com/roach88/sound/internal/ir"

// MiniTable returns a small but complete table: a handful of stops,
// nasals, fricatives, one affricate and four vowels, with eight modifiers.
//
// Feature names follow the shipped table so natural class predicates work.
// Each call returns a fresh value; callers may mutate it.
func MiniTable() ir.TableSpec {
	cv := []string{"consonant", "vowel"}
	c := []string{"consonant"}
	v := []string{"vowel"}

	return ir.TableSpec{
		Version: "mini-1",
		Features: []ir.FeatureSpec{
			{Name: "syllabic", Kind: "binary", Categories: cv},
			{Name: "consonantal", Kind: "binary", Categories: cv},
			{Name: "sonorant", Kind: "binary", Categories: cv},
			{Name: "continuant", Kind: "binary", Categories: c},
			{Name: "delayed_release", Kind: "binary", Categories: c},
			{Name: "place", Kind: "enum", Values: []string{"bilabial", "alveolar", "postalveolar", "velar", "glottal"}, Categories: c},
			{Name: "manner", Kind: "enum", Values: []string{"stop", "affricate", "fricative", "nasal"}, Categories: c},
			{Name: "voice", Kind: "binary", Categories: cv},
			{Name: "aspirated", Kind: "binary", Categories: c},
			{Name: "secondary", Kind: "enum", Values: []string{"labialized", "palatalized"}, Categories: c},
			{Name: "height", Kind: "enum", Values: []string{"close", "mid", "open"}, Categories: v},
			{Name: "backness", Kind: "enum", Values: []string{"front", "central", "back"}, Categories: v},
			{Name: "rounded", Kind: "binary", Categories: v},
			{Name: "nasalized", Kind: "binary", Categories: v, Default: "-"},
			{Name: "length", Kind: "enum", Values: []string{"short", "long"}, Categories: cv, Suprasegmental: true, Default: "short"},
		},
		Glyphs: []ir.GlyphSpec{
			stop("p", "bilabial", "-"),
			stop("b", "bilabial", "+"),
			stop("t", "alveolar", "-"),
			stop("d", "alveolar", "+"),
			stop("k", "velar", "-"),
			stop("ɡ", "velar", "+"),
			nasal("m", "bilabial"),
			nasal("n", "alveolar"),
			fricative("s", "alveolar", "-"),
			fricative("z", "alveolar", "+"),
			fricative("h", "glottal", "-"),
			{Glyph: "t\u0361\u0283", Category: "consonant", Features: map[string]string{
				"syllabic": "-", "consonantal": "+", "sonorant": "-", "continuant": "-", "delayed_release": "+",
				"place": "postalveolar", "manner": "affricate", "voice": "-",
			}},
			vowel("i", "close", "front", "-"),
			vowel("u", "close", "back", "+"),
			vowel("ə", "mid", "central", "-"),
			vowel("a", "open", "central", "-"),
		},
		Modifiers: []ir.ModifierSpec{
			mod("devoiced", "\u0325", 1, cv, "voice", "-"),
			mod("voiced", "\u032C", 2, c, "voice", "+"),
			mod("nasalized", "\u0303", 3, v, "nasalized", "+"),
			mod("aspirated", "ʰ", 4, c, "aspirated", "+"),
			mod("unaspirated", "˭", 5, c, "aspirated", "-"),
			mod("labialized", "ʷ", 6, c, "secondary", "labialized"),
			mod("palatalized", "ʲ", 7, c, "secondary", "palatalized"),
			mod("long", "ː", 8, cv, "length", "long"),
		},
	}
}

func stop(g, place, voice string) ir.GlyphSpec {
	return ir.GlyphSpec{Glyph: g, Category: "consonant", Features: map[string]string{
		"syllabic": "-", "consonantal": "+", "sonorant": "-", "continuant": "-", "delayed_release": "-",
		"place": place, "manner": "stop", "voice": voice,
	}}
}

func nasal(g, place string) ir.GlyphSpec {
	return ir.GlyphSpec{Glyph: g, Category: "consonant", Features: map[string]string{
		"syllabic": "-", "consonantal": "+", "sonorant": "+", "continuant": "-", "delayed_release": "-",
		"place": place, "manner": "nasal", "voice": "+",
	}}
}

func fricative(g, place, voice string) ir.GlyphSpec {
	return ir.GlyphSpec{Glyph: g, Category: "consonant", Features: map[string]string{
		"syllabic": "-", "consonantal": "+", "sonorant": "-", "continuant": "+", "delayed_release": "+",
		"place": place, "manner": "fricative", "voice": voice,
	}}
}

func vowel(g, height, backness, rounded string) ir.GlyphSpec {
	return ir.GlyphSpec{Glyph: g, Category: "vowel", Features: map[string]string{
		"syllabic": "+", "consonantal": "-", "sonorant": "+", "voice": "+",
		"height": height, "backness": backness, "rounded": rounded,
	}}
}

func mod(name, diacritic string, priority int64, cats []string, f, v string) ir.ModifierSpec {
	return ir.ModifierSpec{
		Name: name, Diacritic: diacritic, Priority: priority, Categories: cats,
		Effects: []ir.EffectSpec{{Feature: f, Value: v}},
	}
}
