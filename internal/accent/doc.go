// Package accent implements the accent mapping layer.
//
// An Accent reduces universal feature bundles to its own phonemes: its rules
// neutralize or merge feature values the accent does not distinguish, and its
// realizability predicate marks the bundles it cannot produce at all.
//
// The Layer owns every accent of a registry and builds each accent's
// inventory on demand. Builds follow
//
//	Uninitialized -> Building -> Ready
//
// with at most one build per accent in flight. A build that fails, or whose
// context is canceled, falls back to Uninitialized; it never leaves a
// partial inventory behind.
package accent
