package symbol

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Parse reads a single IPA symbol: a base glyph followed by modifier
// diacritics in any order. Input is compared in NFD so precomposed and
// decomposed spellings parse alike. The glyph is the longest registered
// prefix; every remaining character must be a modifier diacritic.
//
// Parse only spells the symbol. Whether it resolves is up to Resolve.
func (r *Registry) Parse(ipa string) (Symbol, error) {
	d := norm.NFD.String(strings.TrimSpace(ipa))
	if d == "" {
		return Symbol{}, &UnparseableError{Input: ipa, Reason: "empty symbol"}
	}

	gi := -1
	n := min(len(d), r.maxGlyph)
	for ; n > 0; n-- {
		if !utf8.ValidString(d[:n]) {
			continue
		}
		if i, ok := r.byNFD[d[:n]]; ok {
			gi = i
			break
		}
	}
	if gi < 0 {
		return Symbol{}, &UnparseableError{Input: ipa, Reason: "no base glyph"}
	}

	var names []string
	for off := n; off < len(d); {
		_, size := utf8.DecodeRuneInString(d[off:])
		m, ok := r.mods.ByDiacritic(norm.NFC.String(d[off : off+size]))
		if !ok {
			return Symbol{}, &UnparseableError{Input: ipa, Offset: off, Reason: "not a modifier diacritic: " + d[off:off+size]}
		}
		names = append(names, m.Name)
		off += size
	}
	return New(r.glyphs[gi].Glyph, names...), nil
}

// Render writes the symbol as IPA: the glyph followed by the diacritics of
// its modifiers in canonical order, in NFC.
func (r *Registry) Render(s Symbol) (string, error) {
	g, ok := r.byGlyph[s.Base()]
	if !ok {
		return "", &UnknownBaseGlyphError{Glyph: s.Base()}
	}
	mods, err := r.mods.Canonical(s.Modifiers()...)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(r.glyphs[g].Glyph)
	for _, m := range mods {
		sb.WriteString(m.Diacritic)
	}
	return norm.NFC.String(sb.String()), nil
}

// MustRender is like Render but panics on error.
// Use only for symbols taken from the registry.
func (r *Registry) MustRender(s Symbol) string {
	out, err := r.Render(s)
	if err != nil {
		panic(err)
	}
	return out
}
