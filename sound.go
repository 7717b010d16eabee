package sound

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/roach88/sound/internal/accent"
	"github.com/roach88/sound/internal/compiler"
	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/inventory"
	"github.com/roach88/sound/internal/ir"
	"github.com/roach88/sound/internal/symbol"
)

type (
	Symbol           = symbol.Symbol
	SymbolEntry      = symbol.Entry
	Collision        = symbol.Collision
	Bundle           = feature.Bundle
	Value            = feature.Value
	Category         = feature.Category
	FeatureModel     = feature.Model
	Phoneme          = inventory.Phoneme
	Inventory        = inventory.Inventory
	BuildIDGenerator = inventory.BuildIDGenerator
	Accent           = accent.Accent
	AccentDefinition = accent.Definition
	Rule             = accent.Rule
	Predicate        = accent.Predicate
	State            = accent.State
	TableSpec        = ir.TableSpec
	AccentSpec       = ir.AccentSpec
	RuleSpec         = ir.RuleSpec
	InventoryRecord  = ir.InventoryRecord
)

const (
	Consonant = feature.Consonant
	Vowel     = feature.Vowel

	Uninitialized = accent.Uninitialized
	Building      = accent.Building
	Ready         = accent.Ready
)

// NewSymbol constructs a symbol from a base glyph and modifier names. The
// modifier order is canonicalized when the symbol is resolved.
func NewSymbol(base string, modifiers ...string) Symbol {
	return symbol.New(base, modifiers...)
}

// ParseSymbolKey parses the key form of a symbol, "p" or "p[aspirated,long]".
// Unlike Library.Parse it does not consult a table.
func ParseSymbolKey(key string) Symbol {
	return symbol.ParseKey(key)
}

// Library is one loaded table: the symbol registry built from it and the
// accents defined over it.
//
// A Library is safe for concurrent use. Reload swaps in a freshly loaded
// table atomically; values obtained before a reload stay valid but belong to
// the previous table.
type Library struct {
	opts options
	cur  atomic.Pointer[snapshot]

	mu      sync.Mutex // serializes Reload and Define
	defined []accentSource
}

type snapshot struct {
	table *ir.TableSpec
	reg   *symbol.Registry
	layer *accent.Layer
}

// accentSource compiles a user-defined accent against a registry.
type accentSource struct {
	name    string
	compile func(*symbol.Registry) (*accent.Accent, error)
}

// Open loads the table and builds its registry. Accents shipped with the
// table and accents from configured files are registered; no inventory is
// built until one is requested.
func Open(opts ...Option) (*Library, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	l := &Library{opts: o}
	snap, err := l.load()
	if err != nil {
		return nil, err
	}
	l.cur.Store(snap)
	return l, nil
}

// Reload reloads the table and accent files and re-applies accents added
// with Define or DefineSpec. On error the current table stays in place.
// Inventories of the new table are built again on request.
func (l *Library) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.load()
	if err != nil {
		return err
	}
	for _, src := range l.defined {
		a, err := src.compile(snap.reg)
		if err != nil {
			return fmt.Errorf("reload: accent %s: %w", src.name, err)
		}
		if err := snap.layer.Register(a); err != nil {
			return fmt.Errorf("reload: %w", err)
		}
	}

	old := l.cur.Swap(snap)
	l.opts.logger.Info("table reloaded",
		"version", snap.table.Version,
		"fingerprint", snap.reg.Fingerprint(),
		"previous", old.reg.Fingerprint(),
	)
	return nil
}

func (l *Library) load() (*snapshot, error) {
	table, err := l.loadTable()
	if err != nil {
		return nil, err
	}
	if err := compiler.Check(*table); err != nil {
		return nil, fmt.Errorf("table %s: %w", table.Version, err)
	}

	reg, err := symbol.FromSpec(*table, symbol.Options{
		MaxModifiers: l.opts.maxModifiers,
		Logger:       l.opts.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table.Version, err)
	}

	layer := accent.NewLayer(reg,
		accent.WithLogger(l.opts.logger),
		accent.WithBuildIDGenerator(l.opts.ids),
	)

	specs := slices.Clone(table.Accents)
	for _, path := range l.opts.accentFiles {
		extra, err := compiler.LoadAccents(path, table.Features)
		if err != nil {
			return nil, err
		}
		specs = append(specs, extra...)
	}
	for _, spec := range specs {
		a, err := accent.FromSpec(reg, spec)
		if err != nil {
			return nil, err
		}
		if err := layer.Register(a); err != nil {
			return nil, err
		}
	}

	l.opts.logger.Debug("table loaded",
		"version", table.Version,
		"glyphs", len(table.Glyphs),
		"symbols", reg.Len(),
		"collisions", len(reg.Collisions()),
		"accents", len(specs),
	)
	return &snapshot{table: table, reg: reg, layer: layer}, nil
}

func (l *Library) loadTable() (*ir.TableSpec, error) {
	switch {
	case l.opts.table != nil:
		t := *l.opts.table
		return &t, nil
	case l.opts.tablePath != "":
		return compiler.LoadTable(l.opts.tablePath)
	default:
		return compiler.DefaultTable()
	}
}

func (l *Library) snap() *snapshot { return l.cur.Load() }

// Version returns the loaded table's version.
func (l *Library) Version() string { return l.snap().table.Version }

// Fingerprint returns the loaded table's content hash.
func (l *Library) Fingerprint() string { return l.snap().reg.Fingerprint() }

// Model returns the feature model.
func (l *Library) Model() *FeatureModel { return l.snap().reg.Model() }

// Bundle builds a bundle from feature names and values. Features not named
// take their defaults.
func (l *Library) Bundle(c Category, values map[string]string) (Bundle, error) {
	vals := make(map[string]Value, len(values))
	for k, v := range values {
		vals[k] = Value(v)
	}
	return l.Model().NewBundle(c, vals)
}

// Parse reads an IPA string holding one symbol, e.g. "tʰ".
func (l *Library) Parse(ipa string) (Symbol, error) { return l.snap().reg.Parse(ipa) }

// Render writes a symbol as IPA with diacritics in canonical order.
func (l *Library) Render(s Symbol) (string, error) { return l.snap().reg.Render(s) }

// Resolve returns the bundle of a symbol.
func (l *Library) Resolve(s Symbol) (Bundle, error) { return l.snap().reg.Resolve(s) }

// CanonicalSymbolFor returns the symbol whose bundle is b.
func (l *Library) CanonicalSymbolFor(b Bundle) (Symbol, error) {
	return l.snap().reg.CanonicalSymbolFor(b)
}

// Symbols returns the enumerated symbol space in registry order.
func (l *Library) Symbols() []SymbolEntry { return l.snap().reg.Space() }

// Collisions returns the modified symbols excluded because their bundle
// belongs to another symbol.
func (l *Library) Collisions() []Collision { return l.snap().reg.Collisions() }

// Table returns a copy of the loaded table declarations.
func (l *Library) Table() TableSpec {
	t := *l.snap().table
	t.Features = append([]ir.FeatureSpec(nil), t.Features...)
	t.Glyphs = append([]ir.GlyphSpec(nil), t.Glyphs...)
	t.Modifiers = append([]ir.ModifierSpec(nil), t.Modifiers...)
	t.Accents = append([]ir.AccentSpec(nil), t.Accents...)
	return t
}

// Define compiles and registers an accent. It is registered again, against
// the new table, on every Reload.
func (l *Library) Define(def AccentDefinition) (*Accent, error) {
	return l.define(accentSource{
		name: def.Name,
		compile: func(reg *symbol.Registry) (*accent.Accent, error) {
			return accent.New(reg, def)
		},
	})
}

// DefineSpec is Define for a declared accent.
func (l *Library) DefineSpec(spec AccentSpec) (*Accent, error) {
	if errs := compiler.ValidateAccent(spec, l.snap().table.Features); len(errs) > 0 {
		return nil, compiler.ValidationErrors(errs)
	}
	return l.define(accentSource{
		name: spec.Name,
		compile: func(reg *symbol.Registry) (*accent.Accent, error) {
			return accent.FromSpec(reg, spec)
		},
	})
}

func (l *Library) define(src accentSource) (*Accent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.snap()
	a, err := src.compile(snap.reg)
	if err != nil {
		return nil, err
	}
	if err := snap.layer.Register(a); err != nil {
		return nil, err
	}
	l.defined = append(l.defined, src)
	return a, nil
}

// Accents returns the registered accent names in registration order.
func (l *Library) Accents() []string { return l.snap().layer.Accents() }

// Accent returns a registered accent.
func (l *Library) Accent(name string) (*Accent, bool) { return l.snap().layer.Accent(name) }

// Status returns the inventory state of an accent.
func (l *Library) Status(name string) (State, error) { return l.snap().layer.Status(name) }

// Inventory returns the accent's phoneme inventory, building it on first
// request. Concurrent first requests share one build.
func (l *Library) Inventory(ctx context.Context, name string) (*Inventory, error) {
	return l.snap().layer.Inventory(ctx, name)
}

// Lookup returns an accent's inventory only if it is already built.
func (l *Library) Lookup(name string) (*Inventory, error) { return l.snap().layer.Lookup(name) }

// Reduce maps a bundle to its phoneme in an accent whose inventory is built.
func (l *Library) Reduce(name string, b Bundle) (*Phoneme, error) {
	return l.snap().layer.Reduce(name, b)
}

// PhonemeFor resolves a symbol and reduces it, building the accent's
// inventory first if needed.
func (l *Library) PhonemeFor(ctx context.Context, name string, s Symbol) (*Phoneme, error) {
	snap := l.snap()
	b, err := snap.reg.Resolve(s)
	if err != nil {
		return nil, err
	}
	if _, err := snap.layer.Inventory(ctx, name); err != nil {
		return nil, err
	}
	return snap.layer.Reduce(name, b)
}

// Logger returns the library's logger.
func (l *Library) Logger() *slog.Logger { return l.opts.logger }
