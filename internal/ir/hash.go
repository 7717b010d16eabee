package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainTable     = "sound/table/v1"
	DomainInventory = "sound/inventory/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TableFingerprint computes the content hash of a table.
// Two tables with the same declarations in the same order share a fingerprint.
func TableFingerprint(t TableSpec) (string, error) {
	canonical, err := MarshalCanonical(t.irObject())
	if err != nil {
		return "", fmt.Errorf("TableFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTable, canonical), nil
}

// InventoryFingerprint computes the content hash of an inventory record.
//
// BuildID and the record's own Fingerprint are EXCLUDED: the fingerprint
// identifies what was built, not which build produced it, so repeated builds
// of the same accent over the same table hash identically.
func InventoryFingerprint(rec InventoryRecord) (string, error) {
	phonemes := make(IRArray, len(rec.Phonemes))
	for i, p := range rec.Phonemes {
		symbols := make(IRArray, len(p.Symbols))
		for j, s := range p.Symbols {
			symbols[j] = IRObject{"key": IRString(s.Key), "ipa": IRString(s.IPA)}
		}
		phonemes[i] = IRObject{
			"index":   IRInt(p.Index),
			"id":      IRString(p.ID),
			"bundle":  StringMap(p.Bundle),
			"symbols": symbols,
		}
	}

	obj := IRObject{
		"accent":            IRString(rec.Accent),
		"table_fingerprint": IRString(rec.TableFingerprint),
		"skipped":           IRInt(rec.Skipped),
		"phonemes":          phonemes,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("InventoryFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInventory, canonical), nil
}

// MustTableFingerprint is like TableFingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTableFingerprint(t TableSpec) string {
	fp, err := TableFingerprint(t)
	if err != nil {
		panic(err)
	}
	return fp
}

func (t TableSpec) irObject() IRObject {
	features := make(IRArray, len(t.Features))
	for i, f := range t.Features {
		features[i] = IRObject{
			"name":           IRString(f.Name),
			"kind":           IRString(f.Kind),
			"values":         Strings(f.Values),
			"categories":     Strings(f.Categories),
			"suprasegmental": IRBool(f.Suprasegmental),
			"default":        IRString(f.Default),
		}
	}

	glyphs := make(IRArray, len(t.Glyphs))
	for i, g := range t.Glyphs {
		glyphs[i] = IRObject{
			"glyph":    IRString(g.Glyph),
			"category": IRString(g.Category),
			"features": StringMap(g.Features),
		}
	}

	modifiers := make(IRArray, len(t.Modifiers))
	for i, m := range t.Modifiers {
		effects := make(IRArray, len(m.Effects))
		for j, e := range m.Effects {
			effects[j] = IRObject{"feature": IRString(e.Feature), "value": IRString(e.Value)}
		}
		modifiers[i] = IRObject{
			"name":       IRString(m.Name),
			"diacritic":  IRString(m.Diacritic),
			"priority":   IRInt(m.Priority),
			"categories": Strings(m.Categories),
			"effects":    effects,
		}
	}

	// Accents are not part of the universal table identity: the registry
	// built from a table does not depend on them.
	return IRObject{
		"version":   IRString(t.Version),
		"features":  features,
		"glyphs":    glyphs,
		"modifiers": modifiers,
	}
}
