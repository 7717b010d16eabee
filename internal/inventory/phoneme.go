package inventory

import (
	"slices"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/symbol"
)

// Realization is a symbol realizing a phoneme and its IPA spelling.
type Realization struct {
	Symbol symbol.Symbol
	IPA    string
}

// Phoneme is an equivalence class of bundles under an accent's reduction,
// together with the symbols that realize it.
//
// Phonemes are created only by a Builder and are immutable once the
// inventory is built. Consumers hold *Phoneme references; the inventory owns
// them.
type Phoneme struct {
	id           string
	accent       string
	index        int
	bundle       feature.Bundle
	realizations []Realization
}

// ID identifies the phoneme within its inventory. It is the IPA spelling of
// the first symbol that realized it.
func (p *Phoneme) ID() string { return p.id }

// Accent returns the name of the owning accent.
func (p *Phoneme) Accent() string { return p.accent }

// Index returns the phoneme's insertion position in its inventory.
func (p *Phoneme) Index() int { return p.index }

// Bundle returns the reduced bundle shared by every member of the class.
func (p *Phoneme) Bundle() feature.Bundle { return p.bundle }

// Symbols returns the realizing symbols in registry order.
func (p *Phoneme) Symbols() []symbol.Symbol {
	out := make([]symbol.Symbol, len(p.realizations))
	for i, r := range p.realizations {
		out[i] = r.Symbol
	}
	return out
}

// Realizations returns the realizing symbols with their IPA spellings.
func (p *Phoneme) Realizations() []Realization { return slices.Clone(p.realizations) }

func (p *Phoneme) String() string { return "/" + p.id + "/" }
