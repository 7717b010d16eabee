// Package ir provides the declaration types for the authoritative sound table.
//
// This package contains type definitions, canonical JSON and fingerprinting
// only. All other internal packages import ir; ir imports nothing internal.
// The table compiler produces these types from CUE or YAML sources and the
// runtime packages (feature, modifier, symbol, accent) are built from them.
//
// Key constraints:
//   - Declarations are ordered lists; declaration order is semantic
//     (feature order, glyph order, enumeration order)
//   - NO float types anywhere - priorities and counts are int64
//   - All JSON and YAML tags use snake_case
//   - Fingerprints use RFC 8785 canonical JSON with domain separation
package ir
