// Package symbol implements the accent independent symbol registry.
//
// A Symbol is a base glyph plus a set of modifiers. The Registry maps every
// resolvable symbol to exactly one feature bundle and every reachable bundle
// back to exactly one canonical symbol. Bare glyphs round trip: the canonical
// symbol of a bare glyph's bundle is that bare glyph.
//
// The registry is populated once from an authoritative table and never
// mutated. Replacing the table means building a new Registry.
package symbol
