// Package sound links IPA symbols to distinctive-feature bundles and reduces
// those bundles to the phonemes of an accent.
//
// The universal layer is a table of features, base glyphs and diacritic
// modifiers. A Symbol is a base glyph plus a set of modifiers; each symbol the
// table can express resolves to exactly one Bundle, and every bundle in the
// registry maps back to one canonical Symbol. Accents consume that layer: an
// accent's rules collapse features it does not contrast, and its inventory
// groups the registry's symbols into phonemes.
//
//	lib, err := sound.Open()
//	if err != nil {
//		return err
//	}
//	th, _ := lib.Parse("tʰ")
//	p, err := lib.PhonemeFor(ctx, "genam", th) // /t/
//
// Inventories are built on first request, at most once per accent, and are
// read-only afterwards.
package sound
