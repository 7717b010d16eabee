package symbol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/modifier"
	"github.com/roach88/sound/internal/testutil"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := FromSpec(testutil.MiniTable(), Options{})
	require.NoError(t, err)
	return r
}

func TestSymbolEquality(t *testing.T) {
	assert.Equal(t, New("p", "long", "aspirated"), New("p", "aspirated", "long"))
	assert.Equal(t, New("p", "aspirated"), New("p", "aspirated", "aspirated"))
	assert.NotEqual(t, New("p"), New("p", "aspirated"))
	assert.NotEqual(t, New("p", "aspirated"), New("b", "aspirated"))

	// Decomposed and precomposed glyphs are the same symbol.
	assert.Equal(t, New("\u00e7"), New("c\u0327"))

	s := New("p", "long", "aspirated")
	assert.Equal(t, "p", s.Base())
	assert.Equal(t, []string{"aspirated", "long"}, s.Modifiers())
	assert.False(t, s.IsBare())
	assert.True(t, s.Bare().IsBare())
	assert.Equal(t, "p[aspirated,long]", s.String())
	assert.Equal(t, s, New("p").With("long").With("aspirated"))
	assert.True(t, Symbol{}.IsZero())
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key  string
		want Symbol
	}{
		{"p", New("p")},
		{"p[aspirated]", New("p", "aspirated")},
		{"p[long,aspirated]", New("p", "aspirated", "long")},
		{"p[]", New("p")},
		{"t\u0361\u0283[labialized]", New("t\u0361\u0283", "labialized")},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := ParseKey(tt.key)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ParseKey(got.String()))
		})
	}
}

func TestBareGlyphsRoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	for _, g := range r.Glyphs() {
		t.Run(g.Glyph, func(t *testing.T) {
			bare := New(g.Glyph)
			b, err := r.Resolve(bare)
			require.NoError(t, err)
			assert.True(t, b.Equal(g.Bundle))

			got, err := r.CanonicalSymbolFor(b)
			require.NoError(t, err)
			assert.Equal(t, bare, got)
		})
	}
}

func TestAspiratedStopScenario(t *testing.T) {
	r := newTestRegistry(t)

	p, err := r.Resolve(New("p"))
	require.NoError(t, err)
	assert.Equal(t, feature.Minus, p.Value("voice"))
	assert.Equal(t, feature.Value("bilabial"), p.Value("place"))
	assert.Equal(t, feature.Value("stop"), p.Value("manner"))
	assert.Equal(t, feature.NA, p.Value("aspirated"))

	ph, err := r.Resolve(New("p", "aspirated"))
	require.NoError(t, err)
	assert.Equal(t, feature.Minus, ph.Value("voice"))
	assert.Equal(t, feature.Value("bilabial"), ph.Value("place"))
	assert.Equal(t, feature.Value("stop"), ph.Value("manner"))
	assert.Equal(t, feature.Plus, ph.Value("aspirated"))
	assert.False(t, ph.Equal(p))

	sym, err := r.CanonicalSymbolFor(ph)
	require.NoError(t, err)
	assert.Equal(t, New("p", "aspirated"), sym)
}

func TestResolveIsOrderIndependent(t *testing.T) {
	r := newTestRegistry(t)

	a, err := r.Resolve(New("k", "long", "labialized"))
	require.NoError(t, err)
	b, err := r.Resolve(New("k", "labialized", "long"))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, feature.Value("labialized"), a.Value("secondary"))
	assert.Equal(t, feature.Value("long"), a.Value("length"))
}

func TestResolveErrors(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name  string
		sym   Symbol
		check func(error) bool
	}{
		{"unknown glyph", New("ʘ"), IsUnknownBaseGlyph},
		{"unknown modifier", New("p", "breathy"), modifier.IsUnknown},
		{"not applicable", New("i", "aspirated"), modifier.IsNotApplicable},
		{"conflicting", New("p", "aspirated", "unaspirated"), modifier.IsConflicting},
		{"conflicting reversed", New("p", "unaspirated", "aspirated"), modifier.IsConflicting},
		{"collision", New("b", "devoiced"), IsCollision},
		{"vacuous", New("p", "devoiced"), IsCollision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.sym)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestCollisionNamesCanonicalSpelling(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Resolve(New("ɡ", "devoiced"))
	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, New("k"), ce.Existing)
	assert.Equal(t, ErrCodeSymbolCollision, ce.Code())

	assert.Contains(t, r.Collisions(), Collision{Symbol: New("ɡ", "devoiced"), Existing: New("k")})
	assert.Contains(t, r.Collisions(), Collision{Symbol: New("p", "voiced"), Existing: New("b")})
	assert.False(t, r.Contains(New("ɡ", "devoiced")))
}

func TestSpaceIsInjective(t *testing.T) {
	r := newTestRegistry(t)
	space := r.Space()
	require.Equal(t, r.Len(), len(space))

	// Bare glyphs come first, in table order.
	glyphs := r.Glyphs()
	for i, g := range glyphs {
		assert.Equal(t, New(g.Glyph), space[i].Symbol)
	}

	seen := make(map[string]Symbol, len(space))
	for _, e := range space {
		if prev, dup := seen[e.Bundle.Key()]; dup {
			t.Fatalf("%s and %s share a bundle", prev, e.Symbol)
		}
		seen[e.Bundle.Key()] = e.Symbol

		b, err := r.Resolve(e.Symbol)
		require.NoError(t, err)
		assert.True(t, b.Equal(e.Bundle))

		s, err := r.CanonicalSymbolFor(e.Bundle)
		require.NoError(t, err)
		assert.Equal(t, e.Symbol, s)
		assert.LessOrEqual(t, len(e.Symbol.Modifiers()), r.MaxModifiers())
	}
}

func TestResolveMultiplyModified(t *testing.T) {
	r := newTestRegistry(t)

	b, err := r.Resolve(New("t", "aspirated", "labialized", "long"))
	require.NoError(t, err)
	assert.Equal(t, feature.Value("+"), b.Value("aspirated"))
	assert.Equal(t, feature.Value("labialized"), b.Value("secondary"))
	assert.Equal(t, feature.Value("long"), b.Value("length"))
	assert.True(t, r.Contains(New("t", "long", "labialized", "aspirated")))

	s, err := r.CanonicalSymbolFor(b)
	require.NoError(t, err)
	assert.Equal(t, New("t", "aspirated", "labialized", "long"), s)

	// voice, aspirated, secondary and length: one modifier per feature.
	_, err = r.Resolve(New("d", "devoiced", "unaspirated", "palatalized", "long"))
	assert.True(t, IsCollision(err), "devoiced d spells t")
	_, err = r.Resolve(New("t", "unaspirated", "palatalized", "long"))
	assert.NoError(t, err)
}

func TestMaxModifiersOption(t *testing.T) {
	single, err := FromSpec(testutil.MiniTable(), Options{MaxModifiers: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, single.MaxModifiers())

	_, err = single.Resolve(New("p", "aspirated", "long"))
	assert.True(t, IsModifierLimit(err))

	def := newTestRegistry(t)
	assert.Equal(t, def.Modifiers().Len(), def.MaxModifiers())
	assert.Greater(t, def.Len(), single.Len())

	_, err = FromSpec(testutil.MiniTable(), Options{MaxModifiers: -1})
	assert.Error(t, err)
}

func TestCanonicalSymbolForUnreachableBundle(t *testing.T) {
	r := newTestRegistry(t)

	glottalNasal := r.Model().MustBundle(feature.Consonant, map[string]feature.Value{
		"syllabic": "-", "consonantal": "+", "sonorant": "+", "continuant": "-", "delayed_release": "-",
		"place": "glottal", "manner": "nasal", "voice": "+",
	})
	_, err := r.CanonicalSymbolFor(glottalNasal)
	require.Error(t, err)
	assert.True(t, IsNoCanonicalForm(err))

	_, err = r.CanonicalSymbolFor(feature.Bundle{})
	assert.True(t, IsNoCanonicalForm(err))
}

func TestFromSpecValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.TableSpec)
		errMsg string
	}{
		{"duplicate glyph", func(t *ir.TableSpec) {
			t.Glyphs = append(t.Glyphs, t.Glyphs[0])
		}, `duplicate glyph "p"`},
		{"bare bundles collide", func(t *ir.TableSpec) {
			g := t.Glyphs[0]
			g.Glyph = "P"
			t.Glyphs = append(t.Glyphs, g)
		}, `glyphs "p" and "P" share the bundle`},
		{"glyph value outside domain", func(t *ir.TableSpec) {
			t.Glyphs[0].Features["place"] = "uvular"
		}, "INVALID_FEATURE_VALUE"},
		{"glyph uses vowel feature", func(t *ir.TableSpec) {
			t.Glyphs[0].Features["height"] = "close"
		}, "FEATURE_NOT_APPLICABLE"},
		{"unknown category", func(t *ir.TableSpec) {
			t.Glyphs[0].Category = "click"
		}, "no features for category"},
		{"multi character diacritic", func(t *ir.TableSpec) {
			t.Modifiers[3].Diacritic = "ʰʰ"
		}, "single character"},
		{"modifier effect outside category", func(t *ir.TableSpec) {
			t.Modifiers[3].Categories = []string{"consonant", "vowel"}
		}, "does not apply to vowel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := testutil.MiniTable()
			tt.mutate(&table)
			_, err := FromSpec(table, Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := newTestRegistry(t)
	b := newTestRegistry(t)
	assert.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	table := testutil.MiniTable()
	table.Version = "mini-2"
	c, err := FromSpec(table, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
