// Package feature defines the closed set of distinctive features and the
// immutable bundles built from them.
//
// A Feature is a named phonological dimension (voice, place, height, ...)
// with a fixed value domain: binary (+ -), ternary (+ - 0) or a declared
// enumeration. Every domain also admits the explicit not-applicable value NA.
//
// A Bundle maps every feature relevant to a segment category (consonant or
// vowel) to a value. Bundles are total: a feature the segment does not use is
// NA, never missing. Bundles are values; modifications return copies.
//
// The Model is accent agnostic and immutable once built. It is normally
// constructed from the authoritative table by the symbol registry and shared
// by reference with every consumer.
package feature
