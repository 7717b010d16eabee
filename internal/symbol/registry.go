package symbol

import (
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/modifier"
)

// Options configures registry construction.
type Options struct {
	// MaxModifiers bounds the size of the modifier sets enumerated per glyph.
	// Zero enumerates every conflict free set; conflicts already limit a set
	// to one modifier per feature.
	MaxModifiers int

	// Logger receives construction diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Glyph is a base glyph and its bare bundle.
type Glyph struct {
	Glyph       string
	Bundle      feature.Bundle
	Description string
}

// Entry is one resolvable symbol of the registry and its bundle.
type Entry struct {
	Symbol Symbol
	Bundle feature.Bundle
}

// Collision records a symbol excluded from the registry because an earlier
// symbol already denotes its bundle.
type Collision struct {
	Symbol   Symbol
	Existing Symbol
}

// Registry is the accent independent catalog of symbols.
//
// It is built once from an authoritative table and never mutated. Every
// glyph combined with every applicable, conflict free set of modifiers (at
// most MaxModifiers of them when bounded) is resolved up front; the resulting space is an
// injection from symbols into bundles, and its inverse backs
// CanonicalSymbolFor.
type Registry struct {
	model       *feature.Model
	mods        *modifier.Set
	glyphs      []Glyph
	byGlyph     map[string]int
	byNFD       map[string]int
	maxGlyph    int // longest glyph, in bytes of NFD
	maxMods     int
	fingerprint string

	space      []Entry
	forward    map[Symbol]int
	reverse    map[string]int // bundle key -> space index
	collisions map[Symbol]Symbol
	excluded   []Collision
}

// FromSpec builds a registry from a compiled table.
func FromSpec(t ir.TableSpec, opts Options) (*Registry, error) {
	model, err := feature.ModelFromSpec(t.Version, t.Features)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	mods, err := modifier.SetFromSpec(model, t.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("modifiers: %w", err)
	}

	glyphs := make([]Glyph, 0, len(t.Glyphs))
	for _, g := range t.Glyphs {
		values := make(map[string]feature.Value, len(g.Features))
		for name, v := range g.Features {
			values[name] = feature.Value(v)
		}
		b, err := model.NewBundle(feature.Category(g.Category), values)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", g.Glyph, err)
		}
		glyphs = append(glyphs, Glyph{Glyph: g.Glyph, Bundle: b, Description: g.Description})
	}

	fp, err := ir.TableFingerprint(t)
	if err != nil {
		return nil, err
	}
	return newRegistry(model, mods, glyphs, fp, opts)
}

func newRegistry(model *feature.Model, mods *modifier.Set, glyphs []Glyph, fp string, opts Options) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxMods := opts.MaxModifiers
	if maxMods < 0 {
		return nil, fmt.Errorf("max modifiers must not be negative, got %d", maxMods)
	}
	if maxMods == 0 {
		maxMods = mods.Len()
	}

	r := &Registry{
		model:       model,
		mods:        mods,
		glyphs:      make([]Glyph, len(glyphs)),
		byGlyph:     make(map[string]int, len(glyphs)),
		byNFD:       make(map[string]int, len(glyphs)),
		maxMods:     maxMods,
		fingerprint: fp,
		forward:     make(map[Symbol]int),
		reverse:     make(map[string]int),
		collisions:  make(map[Symbol]Symbol),
	}

	for _, m := range mods.All() {
		if utf8.RuneCountInString(norm.NFD.String(m.Diacritic)) != 1 {
			return nil, fmt.Errorf("modifier %q: diacritic %q must be a single character", m.Name, m.Diacritic)
		}
	}

	for i, g := range glyphs {
		g.Glyph = norm.NFC.String(g.Glyph)
		if g.Glyph == "" {
			return nil, fmt.Errorf("glyph[%d]: glyph is required", i)
		}
		if g.Bundle.Model() != model {
			return nil, fmt.Errorf("glyph %q: bundle belongs to a different feature model", g.Glyph)
		}
		if _, dup := r.byGlyph[g.Glyph]; dup {
			return nil, fmt.Errorf("duplicate glyph %q", g.Glyph)
		}
		if _, isMod := mods.ByDiacritic(g.Glyph); isMod {
			return nil, fmt.Errorf("glyph %q is also a modifier diacritic", g.Glyph)
		}
		r.glyphs[i] = g
		r.byGlyph[g.Glyph] = i
		d := norm.NFD.String(g.Glyph)
		r.byNFD[d] = i
		r.maxGlyph = max(r.maxGlyph, len(d))
	}

	if err := r.enumerate(); err != nil {
		return nil, err
	}

	logger.Debug("symbol registry built",
		"version", model.Version(),
		"glyphs", len(r.glyphs),
		"modifiers", mods.Len(),
		"max_modifiers", r.maxMods,
		"symbols", len(r.space),
		"collisions", len(r.collisions))
	return r, nil
}

// enumerate resolves the symbol space in order of modifier count, then glyph
// order, then canonical modifier order. Bare glyphs therefore always win a
// shared bundle over modified spellings.
func (r *Registry) enumerate() error {
	applicable := make([][]modifier.Modifier, len(r.glyphs))
	for i, g := range r.glyphs {
		applicable[i] = r.mods.For(g.Bundle.Category())
	}

	for size := 0; size <= r.maxMods; size++ {
		for gi, g := range r.glyphs {
			var err error
			combinations(applicable[gi], size, func(set []modifier.Modifier) bool {
				if modifier.Check(g.Bundle.Category(), set) != nil {
					return true
				}
				var b feature.Bundle
				b, err = modifier.ComposeCanonical(g.Bundle, set)
				if err != nil {
					err = fmt.Errorf("glyph %q: %w", g.Glyph, err)
					return false
				}

				names := make([]string, len(set))
				for i, m := range set {
					names[i] = m.Name
				}
				sym := New(g.Glyph, names...)

				if prev, taken := r.reverse[b.Key()]; taken {
					existing := r.space[prev].Symbol
					if size == 0 {
						err = fmt.Errorf("glyphs %q and %q share the bundle %s", existing.Base(), g.Glyph, b)
						return false
					}
					r.collisions[sym] = existing
					r.excluded = append(r.excluded, Collision{Symbol: sym, Existing: existing})
					return true
				}
				r.reverse[b.Key()] = len(r.space)
				r.forward[sym] = len(r.space)
				r.space = append(r.space, Entry{Symbol: sym, Bundle: b})
				return true
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// combinations calls fn with every k-subset of mods in lexicographic order,
// stopping early when fn returns false. The slice passed to fn is reused.
func combinations(mods []modifier.Modifier, k int, fn func([]modifier.Modifier) bool) {
	if k > len(mods) {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	set := make([]modifier.Modifier, k)
	for {
		for i, j := range idx {
			set[i] = mods[j]
		}
		if !fn(set) {
			return
		}
		// advance to the next combination
		i := k - 1
		for i >= 0 && idx[i] == len(mods)-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Resolve returns the bundle a symbol denotes.
func (r *Registry) Resolve(s Symbol) (feature.Bundle, error) {
	gi, ok := r.byGlyph[s.Base()]
	if !ok {
		return feature.Bundle{}, &UnknownBaseGlyphError{Glyph: s.Base()}
	}
	if i, ok := r.forward[s]; ok {
		return r.space[i].Bundle, nil
	}

	// Not in the space; report why.
	names := s.Modifiers()
	mods, err := r.mods.Canonical(names...)
	if err != nil {
		return feature.Bundle{}, err
	}
	if err := modifier.Check(r.glyphs[gi].Bundle.Category(), mods); err != nil {
		return feature.Bundle{}, err
	}
	if len(mods) > r.maxMods {
		return feature.Bundle{}, &ModifierLimitError{Symbol: s, Count: len(mods), Max: r.maxMods}
	}
	if existing, ok := r.collisions[s]; ok {
		return feature.Bundle{}, &CollisionError{Symbol: s, Existing: existing}
	}
	return feature.Bundle{}, fmt.Errorf("symbol %s missing from registry", s)
}

// CanonicalSymbolFor returns the symbol that resolves to b. For bundles of
// bare glyphs this is the bare glyph.
func (r *Registry) CanonicalSymbolFor(b feature.Bundle) (Symbol, error) {
	if b.Model() == r.model {
		if i, ok := r.reverse[b.Key()]; ok {
			return r.space[i].Symbol, nil
		}
	}
	return Symbol{}, &NoCanonicalFormError{Bundle: b.String()}
}

// Contains reports whether s is a resolvable symbol of the registry.
func (r *Registry) Contains(s Symbol) bool {
	_, ok := r.forward[s]
	return ok
}

// Space returns every resolvable symbol in enumeration order.
func (r *Registry) Space() []Entry { return slices.Clone(r.space) }

// Len returns the number of resolvable symbols.
func (r *Registry) Len() int { return len(r.space) }

// Collisions returns the symbols excluded from the space, in enumeration order.
func (r *Registry) Collisions() []Collision { return slices.Clone(r.excluded) }

// Glyphs returns the base glyphs in table order.
func (r *Registry) Glyphs() []Glyph { return slices.Clone(r.glyphs) }

// Glyph looks up a base glyph.
func (r *Registry) Glyph(g string) (Glyph, bool) {
	i, ok := r.byGlyph[norm.NFC.String(g)]
	if !ok {
		return Glyph{}, false
	}
	return r.glyphs[i], true
}

// Model returns the feature model.
func (r *Registry) Model() *feature.Model { return r.model }

// Modifiers returns the modifier set.
func (r *Registry) Modifiers() *modifier.Set { return r.mods }

// MaxModifiers returns the largest modifier set the registry enumerates. An
// unbounded registry reports the number of declared modifiers.
func (r *Registry) MaxModifiers() int { return r.maxMods }

// Fingerprint returns the content hash of the table the registry was built
// from.
func (r *Registry) Fingerprint() string { return r.fingerprint }
