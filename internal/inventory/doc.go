// Package inventory holds an accent's phonemes.
//
// An Inventory is produced once by a Builder while the accent layer walks the
// symbol registry, and is read-only afterwards. No mutation is exposed after
// Build returns.
package inventory
