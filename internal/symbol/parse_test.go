package symbol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sound/internal/modifier"
)

func TestParse(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name  string
		input string
		want  Symbol
	}{
		{"bare", "p", New("p")},
		{"aspirated", "pʰ", New("p", "aspirated")},
		{"two modifiers", "pʰː", New("p", "aspirated", "long")},
		{"diacritic order ignored", "pːʰ", New("p", "aspirated", "long")},
		{"precomposed nasal vowel", "\u00e3", New("a", "nasalized")},
		{"decomposed nasal vowel", "a\u0303", New("a", "nasalized")},
		{"longest glyph wins", "t\u0361\u0283ʰ", New("t\u0361\u0283", "aspirated")},
		{"combining below", "n\u0325", New("n", "devoiced")},
		{"surrounding space", " k ", New("k")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"empty", "", 0},
		{"diacritic first", "ʰp", 0},
		{"unknown base", "ʘ", 0},
		{"trailing letter", "px", 1},
		{"two glyphs", "pt", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Parse(tt.input)
			require.Error(t, err)
			assert.True(t, IsUnparseable(err))

			var ue *UnparseableError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.offset, ue.Offset)
		})
	}
}

func TestParseDoesNotResolve(t *testing.T) {
	r := newTestRegistry(t)

	// Spellable but not resolvable.
	s, err := r.Parse("iʰ")
	require.NoError(t, err)
	assert.Equal(t, New("i", "aspirated"), s)

	_, err = r.Resolve(s)
	assert.True(t, modifier.IsNotApplicable(err))
}

func TestRender(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		sym  Symbol
		want string
	}{
		{New("p"), "p"},
		{New("p", "aspirated"), "pʰ"},
		{New("p", "long", "aspirated"), "pʰː"},
		{New("a", "nasalized"), "\u00e3"},
		{New("t\u0361\u0283", "labialized"), "t\u0361\u0283ʷ"},
	}
	for _, tt := range tests {
		t.Run(tt.sym.String(), func(t *testing.T) {
			got, err := r.Render(tt.sym)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.Render(New("ʘ"))
	assert.True(t, IsUnknownBaseGlyph(err))
	_, err = r.Render(New("p", "breathy"))
	assert.True(t, modifier.IsUnknown(err))
}

func TestParseRenderRoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	for _, e := range r.Space() {
		ipa := r.MustRender(e.Symbol)
		got, err := r.Parse(ipa)
		require.NoError(t, err, ipa)
		assert.Equal(t, e.Symbol, got, ipa)
	}
}
