package inventory

import (
	"fmt"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/symbol"
)

// Builder accumulates phonemes for one accent. It is not safe for concurrent
// use and is discarded once Build returns.
type Builder struct {
	inv   *Inventory
	built bool
}

// NewBuilder starts an inventory for the named accent over the table with
// the given fingerprint.
func NewBuilder(accent, tableFingerprint string) *Builder {
	return &Builder{inv: &Inventory{
		accent:           accent,
		tableFingerprint: tableFingerprint,
		byID:             make(map[string]*Phoneme),
		byBundle:         make(map[string]*Phoneme),
		bySymbol:         make(map[symbol.Symbol]*Phoneme),
	}}
}

// Add records that s, spelled ipa, realizes the reduced bundle. The first
// symbol of a new equivalence class creates its phoneme.
func (b *Builder) Add(s symbol.Symbol, ipa string, reduced feature.Bundle) (*Phoneme, error) {
	if b.built {
		return nil, fmt.Errorf("inventory %s: builder already used", b.inv.accent)
	}
	if reduced.IsZero() {
		return nil, fmt.Errorf("inventory %s: %s has no bundle", b.inv.accent, s)
	}
	if p, dup := b.inv.bySymbol[s]; dup {
		return nil, fmt.Errorf("inventory %s: %s already realizes %s", b.inv.accent, s, p)
	}

	p, ok := b.inv.byBundle[reduced.Key()]
	if !ok {
		if _, taken := b.inv.byID[ipa]; taken {
			return nil, fmt.Errorf("inventory %s: phoneme id %q already in use", b.inv.accent, ipa)
		}
		p = &Phoneme{
			id:     ipa,
			accent: b.inv.accent,
			index:  len(b.inv.phonemes),
			bundle: reduced,
		}
		b.inv.phonemes = append(b.inv.phonemes, p)
		b.inv.byID[ipa] = p
		b.inv.byBundle[reduced.Key()] = p
	}
	p.realizations = append(p.realizations, Realization{Symbol: s, IPA: ipa})
	b.inv.bySymbol[s] = p
	return p, nil
}

// Skip records a symbol the accent tolerates as a gap.
func (b *Builder) Skip(s symbol.Symbol) {
	b.inv.skipped = append(b.inv.skipped, s)
}

// Build seals the inventory, stamping it with a build id from gen.
func (b *Builder) Build(gen BuildIDGenerator) (*Inventory, error) {
	if b.built {
		return nil, fmt.Errorf("inventory %s: builder already used", b.inv.accent)
	}
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	fp, err := ir.InventoryFingerprint(b.inv.record())
	if err != nil {
		return nil, fmt.Errorf("inventory %s: %w", b.inv.accent, err)
	}
	b.built = true
	b.inv.fingerprint = fp
	b.inv.buildID = gen.Generate()
	return b.inv, nil
}
