package sound

import (
	"errors"

	"github.com/roach88/sound/internal/accent"
	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/modifier"
	"github.com/roach88/sound/internal/symbol"
)

// Error classification helpers. Each reports whether err, or an error it
// wraps, is of the named kind.
var (
	IsInvalidFeatureValue  = feature.IsInvalidFeatureValue
	IsUnknownFeature       = feature.IsUnknownFeature
	IsModifierConflict     = modifier.IsConflicting
	IsModifierInapplicable = modifier.IsNotApplicable
	IsUnknownModifier      = modifier.IsUnknown
	IsUnknownBaseGlyph     = symbol.IsUnknownBaseGlyph
	IsNoCanonicalForm      = symbol.IsNoCanonicalForm
	IsCollision            = symbol.IsCollision
	IsModifierLimit        = symbol.IsModifierLimit
	IsUnparseable          = symbol.IsUnparseable
	IsUnrealizable         = accent.IsUnrealizable
	IsBuildFailed          = accent.IsBuildFailed
	IsNotReady             = accent.IsNotReady
	IsUnknownAccent        = accent.IsUnknownAccent
	IsInvalidRule          = accent.IsInvalidRule
)

// ErrorCode returns the stable code of the first coded error in err's chain,
// e.g. "UNKNOWN_BASE_GLYPH", or "" if there is none.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// Neutralize returns a rule mapping every value of a feature to "na".
func Neutralize(name string) Rule { return accent.Neutralize(name) }

// Merge returns a rule mapping the from values of a feature to one value.
func Merge(name string, to Value, from ...Value) Rule {
	return accent.Merge(name, to, from...)
}

// Expr compiles an expr-lang predicate over the library's feature model,
// for use as an accent's Realizable or Tolerate.
func (l *Library) Expr(src string) (Predicate, error) {
	return accent.Expr(src, l.Model())
}
