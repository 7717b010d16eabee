// Package modifier defines diacritic kinds and how they transform feature
// bundles.
//
// A Modifier assigns values to a fixed list of features. It is pure and
// total on bundles of the categories it declares, and fails with
// ModifierNotApplicable elsewhere.
//
// Composition is order independent: Set.Compose resolves the requested
// modifiers, drops duplicates, sorts them by their fixed priority and only
// then applies them. Two modifiers assigning different values to the same
// feature conflict, whatever order the caller listed them in.
package modifier
