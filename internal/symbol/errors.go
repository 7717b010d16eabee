package symbol

import (
	"errors"
	"fmt"
)

// Error codes for registry errors.
const (
	ErrCodeUnknownBaseGlyph = "UNKNOWN_BASE_GLYPH"
	ErrCodeNoCanonicalForm  = "NO_CANONICAL_FORM"
	ErrCodeSymbolCollision  = "SYMBOL_COLLISION"
	ErrCodeModifierLimit    = "MODIFIER_LIMIT"
	ErrCodeUnparseable      = "UNPARSEABLE_SYMBOL"
)

// UnknownBaseGlyphError reports a glyph absent from the registry.
type UnknownBaseGlyphError struct {
	Glyph string
}

// Code returns the stable error code.
func (e *UnknownBaseGlyphError) Code() string { return ErrCodeUnknownBaseGlyph }

func (e *UnknownBaseGlyphError) Error() string {
	return fmt.Sprintf("%s: no base glyph %q", ErrCodeUnknownBaseGlyph, e.Glyph)
}

// NoCanonicalFormError reports a bundle no registered symbol resolves to.
type NoCanonicalFormError struct {
	Bundle string
}

// Code returns the stable error code.
func (e *NoCanonicalFormError) Code() string { return ErrCodeNoCanonicalForm }

func (e *NoCanonicalFormError) Error() string {
	return fmt.Sprintf("%s: no symbol resolves to %s", ErrCodeNoCanonicalForm, e.Bundle)
}

// CollisionError reports a symbol whose bundle is already claimed by an
// earlier symbol of the registry. Such symbols are not resolvable: Existing
// is the canonical spelling of the sound.
type CollisionError struct {
	Symbol   Symbol
	Existing Symbol
}

// Code returns the stable error code.
func (e *CollisionError) Code() string { return ErrCodeSymbolCollision }

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %s denotes the same sound as %s", ErrCodeSymbolCollision, e.Symbol, e.Existing)
}

// ModifierLimitError reports a symbol with more modifiers than the registry
// enumerates.
type ModifierLimitError struct {
	Symbol Symbol
	Count  int
	Max    int
}

// Code returns the stable error code.
func (e *ModifierLimitError) Code() string { return ErrCodeModifierLimit }

func (e *ModifierLimitError) Error() string {
	return fmt.Sprintf("%s: %s carries %d modifiers (max %d)", ErrCodeModifierLimit, e.Symbol, e.Count, e.Max)
}

// UnparseableError reports an IPA string that is not a base glyph followed by
// modifier diacritics.
type UnparseableError struct {
	Input  string
	Offset int // byte offset into the NFD form of Input
	Reason string
}

// Code returns the stable error code.
func (e *UnparseableError) Code() string { return ErrCodeUnparseable }

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("%s: %q at offset %d: %s", ErrCodeUnparseable, e.Input, e.Offset, e.Reason)
}

// IsUnknownBaseGlyph returns true if err is or wraps an UnknownBaseGlyphError.
func IsUnknownBaseGlyph(err error) bool {
	var e *UnknownBaseGlyphError
	return errors.As(err, &e)
}

// IsNoCanonicalForm returns true if err is or wraps a NoCanonicalFormError.
func IsNoCanonicalForm(err error) bool {
	var e *NoCanonicalFormError
	return errors.As(err, &e)
}

// IsCollision returns true if err is or wraps a CollisionError.
func IsCollision(err error) bool {
	var e *CollisionError
	return errors.As(err, &e)
}

// IsModifierLimit returns true if err is or wraps a ModifierLimitError.
func IsModifierLimit(err error) bool {
	var e *ModifierLimitError
	return errors.As(err, &e)
}

// IsUnparseable returns true if err is or wraps an UnparseableError.
func IsUnparseable(err error) bool {
	var e *UnparseableError
	return errors.As(err, &e)
}
