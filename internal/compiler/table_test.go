package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sound/internal/accent"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/symbol"
)

const tinyTable = `
package custom

table: {
	version: "tiny-1"
	features: [
		{name: "voice", kind: "binary", categories: ["consonant"]},
	]
	glyphs: [
		{glyph: "p", category: "consonant", features: voice: "-"},
		{glyph: "b", category: "consonant", features: voice: "+"},
	]
	modifiers: [
		{name: "voiced", diacritic: "\u032C", priority: 1, categories: ["consonant"],
			effects: [{feature: "voice", value: "+"}]},
	]
}
`

func TestDefaultTable(t *testing.T) {
	spec, err := DefaultTable()
	require.NoError(t, err)

	assert.Equal(t, "ipa-2026.2", spec.Version)
	assert.Len(t, spec.Features, 20)
	assert.Len(t, spec.Glyphs, 99)
	assert.Len(t, spec.Modifiers, 12)
	assert.Empty(t, Validate(*spec), "shipped table must validate")

	p := spec.Glyphs[0]
	assert.Equal(t, "p", p.Glyph)
	assert.Equal(t, "consonant", p.Category)
	assert.Equal(t, map[string]string{
		"syllabic": "-", "consonantal": "+", "sonorant": "-", "continuant": "-",
		"delayed_release": "-", "manner": "stop", "voice": "-", "fortis": "+", "place": "bilabial",
	}, p.Features)

	var names []string
	for _, a := range spec.Accents {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"genam", "narrow"}, names)

	again, err := DefaultTable()
	require.NoError(t, err)
	assert.Equal(t, ir.MustTableFingerprint(*spec), ir.MustTableFingerprint(*again))
}

func TestDefaultTableBuildsRegistry(t *testing.T) {
	spec, err := DefaultTable()
	require.NoError(t, err)

	reg, err := symbol.FromSpec(*spec, symbol.Options{})
	require.NoError(t, err)

	s, err := reg.Parse("t\u0361\u0283\u02b0")
	require.NoError(t, err)
	assert.Equal(t, symbol.New("t\u0361\u0283", "aspirated"), s)

	b, err := reg.Resolve(s)
	require.NoError(t, err)
	assert.Equal(t, "affricate", string(b.Value("manner")))

	// A devoiced labial-velar glide is ʍ.
	_, err = reg.Resolve(symbol.New("w", "devoiced"))
	var ce *symbol.CollisionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, symbol.New("ʍ"), ce.Existing)
}

func TestDefaultTableVoicingKeepsFortis(t *testing.T) {
	spec, err := DefaultTable()
	require.NoError(t, err)
	reg, err := symbol.FromSpec(*spec, symbol.Options{})
	require.NoError(t, err)

	tests := []struct {
		ipa       string
		sym       symbol.Symbol
		contrasts string
		voice     string
		fortis    string
	}{
		{"b\u0325", symbol.New("b", "devoiced"), "p", "-", "-"},
		{"d\u0325", symbol.New("d", "devoiced"), "t", "-", "-"},
		{"ɡ\u0325", symbol.New("ɡ", "devoiced"), "k", "-", "-"},
		{"z\u0325", symbol.New("z", "devoiced"), "s", "-", "-"},
		{"p\u032C", symbol.New("p", "voiced"), "b", "+", "+"},
		{"k\u032C", symbol.New("k", "voiced"), "ɡ", "+", "+"},
	}

	for _, tt := range tests {
		t.Run(tt.sym.String(), func(t *testing.T) {
			s, err := reg.Parse(tt.ipa)
			require.NoError(t, err)
			assert.Equal(t, tt.sym, s)

			b, err := reg.Resolve(s)
			require.NoError(t, err)
			assert.Equal(t, tt.voice, string(b.Value("voice")))
			assert.Equal(t, tt.fortis, string(b.Value("fortis")))

			other, err := reg.Resolve(symbol.New(tt.contrasts))
			require.NoError(t, err)
			assert.False(t, b.Equal(other), "%s and %s share a bundle", tt.sym, tt.contrasts)

			canonical, err := reg.CanonicalSymbolFor(b)
			require.NoError(t, err)
			assert.Equal(t, tt.sym, canonical)
		})
	}
}

func TestGenamInventory(t *testing.T) {
	spec, err := DefaultTable()
	require.NoError(t, err)
	reg, err := symbol.FromSpec(*spec, symbol.Options{})
	require.NoError(t, err)

	layer := accent.NewLayer(reg)
	for _, a := range spec.Accents {
		compiled, err := accent.FromSpec(reg, a)
		require.NoError(t, err, a.Name)
		require.NoError(t, layer.Register(compiled))
	}

	inv, err := layer.Inventory(context.Background(), "genam")
	require.NoError(t, err)
	assert.Equal(t, len(spec.Accents[0].Phonemic), inv.Len())

	k, ok := inv.ForSymbol(symbol.New("k"))
	require.True(t, ok)
	kh, ok := inv.ForSymbol(symbol.New("k", "aspirated"))
	require.True(t, ok)
	assert.Same(t, k, kh)

	l, ok := inv.Lookup("l")
	require.True(t, ok)
	dark, ok := inv.ForSymbol(symbol.New("l", "velarized"))
	require.True(t, ok)
	assert.Same(t, l, dark)

	rhotic, ok := inv.Lookup("ɜ˞")
	require.True(t, ok, "rhotic vowel is a phoneme")
	assert.Equal(t, []symbol.Symbol{symbol.New("ɜ", "rhoticized")}, rhotic.Symbols()[:1])

	_, ok = inv.ForSymbol(symbol.New("ʔ"))
	assert.False(t, ok, "glottal stop is a tolerated gap")
	assert.Contains(t, inv.Skipped(), symbol.New("ʔ"))
}

func TestCompileSourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		errMsg string
	}{
		{"syntax", "table: {", "bad.cue"},
		{"no table", "other: 1", "no table declared"},
		{"unknown field", `table: {version: "x", features: [], glyphs: [], modifiers: [], bogus: 1}`, "bogus"},
		{"bad kind", `table: {version: "x", features: [{name: "voice", kind: "unary", categories: ["vowel"]}], glyphs: [], modifiers: []}`, "kind"},
		{"incomplete", `table: {version: string, features: [], glyphs: [], modifiers: []}`, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileSource([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCompileErrorPosition(t *testing.T) {
	_, err := CompileSource([]byte("table: {\n\tversion: ]\n}\n"), "pos.cue")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Pos.IsValid())
	assert.Contains(t, err.Error(), "pos.cue:2")
}

func TestLoadTable(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "table.cue"), []byte(tinyTable), 0644))

		spec, err := LoadTable(dir)
		require.NoError(t, err)
		assert.Equal(t, "tiny-1", spec.Version)
		require.Len(t, spec.Glyphs, 2)
		assert.Equal(t, "\u032C", spec.Modifiers[0].Diacritic)
		assert.Empty(t, Validate(*spec))
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiny.cue")
		require.NoError(t, os.WriteFile(path, []byte(tinyTable), 0644))

		spec, err := LoadTable(path)
		require.NoError(t, err)
		assert.Equal(t, int64(1), spec.Modifiers[0].Priority)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "nope.cue"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDefaultSourceIsACopy(t *testing.T) {
	src := DefaultSource()
	require.NotEmpty(t, src)
	src[0] = 'X'
	assert.NotEqual(t, byte('X'), DefaultSource()[0])
}
