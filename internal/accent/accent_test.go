package accent

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/symbol"
	"github.com/roach88/sound/internal/testutil"
)

func newRegistry(t *testing.T) *symbol.Registry {
	t.Helper()
	r, err := symbol.FromSpec(testutil.MiniTable(), symbol.Options{})
	require.NoError(t, err)
	return r
}

func newLayer(t *testing.T, r *symbol.Registry) *Layer {
	t.Helper()
	return NewLayer(r,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithBuildIDGenerator(testutil.NewFixedBuildIDGenerator("build-1")))
}

func resolve(t *testing.T, r *symbol.Registry, s symbol.Symbol) feature.Bundle {
	t.Helper()
	b, err := r.Resolve(s)
	require.NoError(t, err)
	return b
}

func TestReduceNeutralizes(t *testing.T) {
	r := newRegistry(t)
	plain, err := New(r, Definition{Name: "plain", Rules: []Rule{Neutralize("aspirated")}})
	require.NoError(t, err)

	p := resolve(t, r, symbol.New("p"))
	ph := resolve(t, r, symbol.New("p", "aspirated"))
	pUnasp := resolve(t, r, symbol.New("p", "unaspirated"))

	a, err := plain.Reduce(p)
	require.NoError(t, err)
	b, err := plain.Reduce(ph)
	require.NoError(t, err)
	c, err := plain.Reduce(pUnasp)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))
	assert.Equal(t, feature.NA, b.Value("aspirated"))
}

func TestReduceIsIdempotent(t *testing.T) {
	r := newRegistry(t)
	a, err := New(r, Definition{Name: "merged", Rules: []Rule{
		Neutralize("aspirated"),
		Merge("place", "alveolar", "postalveolar"),
		Merge("place", "velar", "alveolar"),
		Merge("length", "short", "long"),
	}})
	require.NoError(t, err)

	for _, e := range r.Space() {
		once, err := a.Reduce(e.Bundle)
		require.NoError(t, err)
		twice, err := a.Reduce(once)
		require.NoError(t, err)
		assert.True(t, once.Equal(twice), e.Symbol.String())
	}

	// Chains resolve to their end: postalveolar -> alveolar -> velar.
	tsh, err := a.Reduce(resolve(t, r, symbol.New("t\u0361\u0283")))
	require.NoError(t, err)
	assert.Equal(t, feature.Value("velar"), tsh.Value("place"))
}

func TestCompileRulesRejects(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		name   string
		rules  []Rule
		errMsg string
	}{
		{"unknown feature", []Rule{Neutralize("breathy")}, "unknown feature"},
		{"target outside domain", []Rule{Merge("place", "uvular", "velar")}, "target"},
		{"source outside domain", []Rule{Merge("place", "velar", "uvular")}, "source"},
		{"conflicting targets", []Rule{
			Merge("place", "velar", "alveolar"),
			Merge("place", "bilabial", "alveolar"),
		}, "maps to both"},
		{"cycle", []Rule{
			Merge("place", "velar", "bilabial"),
			Merge("place", "bilabial", "velar"),
		}, "cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(r, Definition{Name: "bad", Rules: tt.rules})
			require.Error(t, err)
			assert.True(t, IsInvalidRule(err))
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Contains(t, err.Error(), "INVALID_RULE")
		})
	}

	_, err := New(r, Definition{})
	assert.True(t, IsInvalidRule(err))
}

func TestRealizableWithPhonemicSymbols(t *testing.T) {
	r := newRegistry(t)
	a, err := New(r, Definition{
		Name:     "tiny",
		Rules:    []Rule{Neutralize("aspirated")},
		Phonemic: []symbol.Symbol{symbol.New("p"), symbol.New("a")},
	})
	require.NoError(t, err)

	ok, err := a.Realizable(resolve(t, r, symbol.New("p", "aspirated")))
	require.NoError(t, err)
	assert.True(t, ok, "reduces to a phonemic symbol")

	ok, err = a.Realizable(resolve(t, r, symbol.New("k")))
	require.NoError(t, err)
	assert.False(t, ok)

	tol, err := a.Tolerates(resolve(t, r, symbol.New("k")))
	require.NoError(t, err)
	assert.False(t, tol, "nil tolerates nothing")

	_, err = New(r, Definition{Name: "bad", Phonemic: []symbol.Symbol{symbol.New("ʘ")}})
	assert.True(t, IsInvalidRule(err))
	assert.True(t, symbol.IsUnknownBaseGlyph(err))
}

func TestExprPredicate(t *testing.T) {
	r := newRegistry(t)

	pred, err := Expr(`category == "vowel" || aspirated != "+"`, r.Model())
	require.NoError(t, err)

	ok, err := pred(resolve(t, r, symbol.New("p")))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pred(resolve(t, r, symbol.New("p", "aspirated")))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = pred(resolve(t, r, symbol.New("a")))
	require.NoError(t, err)
	assert.True(t, ok, "aspirated is na on vowels")

	classes, err := Expr(`is_stop && !is_voiced`, r.Model())
	require.NoError(t, err)
	ok, err = classes(resolve(t, r, symbol.New("k")))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = classes(resolve(t, r, symbol.New("ɡ")))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Expr(`breathy == "+"`, r.Model())
	assert.Error(t, err, "unknown identifiers do not compile")
	_, err = Expr(`place`, r.Model())
	assert.Error(t, err, "non-boolean expressions do not compile")
}

func TestFromSpec(t *testing.T) {
	r := newRegistry(t)

	a, err := FromSpec(r, ir.AccentSpec{
		Name:        "spec",
		Description: "declared accent",
		Rules: []ir.RuleSpec{
			{Feature: "aspirated"},
			{Feature: "length", From: []string{"long"}, To: "short"},
		},
		Phonemic:   []string{"p", "b", "tʰ", "a"},
		Realizable: `category == "vowel" || secondary == "na"`,
		Tolerate:   "true",
	})
	require.NoError(t, err)
	assert.Equal(t, "spec", a.Name())
	assert.Equal(t, "declared accent", a.Description())

	def := a.Definition()
	require.Len(t, def.Rules, 2)
	assert.Equal(t, Neutralize("aspirated"), def.Rules[0])
	assert.Equal(t, Merge("length", "short", "long"), def.Rules[1])
	assert.Equal(t, symbol.New("t", "aspirated"), def.Phonemic[2])

	pw := resolve(t, r, symbol.New("p", "labialized"))
	ok, err := a.Realizable(pw)
	require.NoError(t, err)
	assert.False(t, ok)
	tol, err := a.Tolerates(pw)
	require.NoError(t, err)
	assert.True(t, tol)

	_, err = FromSpec(r, ir.AccentSpec{Name: "bad", Phonemic: []string{"px"}})
	assert.True(t, IsInvalidRule(err))
	assert.True(t, symbol.IsUnparseable(err))

	_, err = FromSpec(r, ir.AccentSpec{Name: "bad", Realizable: "nope =="})
	assert.True(t, IsInvalidRule(err))

	_, err = FromSpec(r, ir.AccentSpec{Name: "bad", Tolerate: "1 + 1"})
	assert.True(t, IsInvalidRule(err))
}

func TestErrorCodes(t *testing.T) {
	cause := &UnrealizableError{Accent: "x", Bundle: "[consonant]"}
	err := error(&BuildFailedError{Accent: "x", Symbol: symbol.New("p", "aspirated"), Cause: cause})

	assert.True(t, IsBuildFailed(err))
	assert.True(t, IsUnrealizable(err), "cause is reachable")
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "INVENTORY_BUILD_FAILED")
	assert.Contains(t, err.Error(), "p[aspirated]")

	assert.Equal(t, ErrCodeInventoryNotReady, (&NotReadyError{}).Code())
	assert.Equal(t, ErrCodeUnknownAccent, (&UnknownAccentError{}).Code())
	assert.Contains(t, (&NotReadyError{Accent: "x", State: Building}).Error(), "building")
}
