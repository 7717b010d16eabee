package inventory

import (
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/symbol"
)

// BuildIDGenerator produces the id stamped on each built inventory.
type BuildIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 build ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Inventory is an accent's read-only set of phonemes.
//
// Enumeration order is insertion order at build time, which is the symbol
// registry's enumeration order and therefore identical across builds of the
// same accent over the same table.
type Inventory struct {
	accent           string
	tableFingerprint string
	buildID          string
	fingerprint      string

	phonemes []*Phoneme
	byID     map[string]*Phoneme
	byBundle map[string]*Phoneme
	bySymbol map[symbol.Symbol]*Phoneme
	skipped  []symbol.Symbol
}

// Accent returns the owning accent's name.
func (inv *Inventory) Accent() string { return inv.accent }

// Lookup returns the phoneme with the given id.
func (inv *Inventory) Lookup(id string) (*Phoneme, bool) {
	p, ok := inv.byID[id]
	return p, ok
}

// Phonemes returns every phoneme in insertion order.
func (inv *Inventory) Phonemes() []*Phoneme { return slices.Clone(inv.phonemes) }

// Symbols returns the symbols realizing the phoneme with the given id.
func (inv *Inventory) Symbols(id string) ([]symbol.Symbol, bool) {
	p, ok := inv.byID[id]
	if !ok {
		return nil, false
	}
	return p.Symbols(), true
}

// ForBundle returns the phoneme whose reduced bundle is b.
func (inv *Inventory) ForBundle(b feature.Bundle) (*Phoneme, bool) {
	p, ok := inv.byBundle[b.Key()]
	if !ok || !p.bundle.Equal(b) {
		return nil, false
	}
	return p, true
}

// ForSymbol returns the phoneme a symbol realizes.
func (inv *Inventory) ForSymbol(s symbol.Symbol) (*Phoneme, bool) {
	p, ok := inv.bySymbol[s]
	return p, ok
}

// Len returns the number of phonemes.
func (inv *Inventory) Len() int { return len(inv.phonemes) }

// Skipped returns the symbols the accent tolerated as gaps, in registry order.
func (inv *Inventory) Skipped() []symbol.Symbol { return slices.Clone(inv.skipped) }

// BuildID returns the id of the build that produced the inventory.
func (inv *Inventory) BuildID() string { return inv.buildID }

// TableFingerprint returns the fingerprint of the table the inventory was
// built from.
func (inv *Inventory) TableFingerprint() string { return inv.tableFingerprint }

// Fingerprint returns the content hash of the inventory. It does not depend
// on the build id.
func (inv *Inventory) Fingerprint() string { return inv.fingerprint }

// Record exports the inventory.
func (inv *Inventory) Record() ir.InventoryRecord {
	rec := inv.record()
	rec.Fingerprint = inv.fingerprint
	rec.BuildID = inv.buildID
	return rec
}

func (inv *Inventory) record() ir.InventoryRecord {
	rec := ir.InventoryRecord{
		Accent:           inv.accent,
		TableFingerprint: inv.tableFingerprint,
		Skipped:          int64(len(inv.skipped)),
		Phonemes:         make([]ir.PhonemeRecord, len(inv.phonemes)),
	}
	for i, p := range inv.phonemes {
		syms := make([]ir.SymbolRecord, len(p.realizations))
		for j, r := range p.realizations {
			syms[j] = ir.SymbolRecord{Key: r.Symbol.String(), IPA: r.IPA}
		}
		rec.Phonemes[i] = ir.PhonemeRecord{
			Index:   int64(p.index),
			ID:      p.id,
			Bundle:  p.bundle.Map(),
			Symbols: syms,
		}
	}
	return rec
}
