package accent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/roach88/sound/internal/feature"
	"github.com/roach88/sound/internal/inventory"
	"github.com/roach88/sound/internal/symbol"
)

// State is the lifecycle state of an accent's inventory.
type State int

const (
	Uninitialized State = iota
	Building
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Building:
		return "building"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// defaultCheckEvery is how many symbols a build processes between
// cancellation checks.
const defaultCheckEvery = 64

type entry struct {
	accent  *Accent
	state   State
	inv     *inventory.Inventory
	lastErr error
	builds  int
	flight  *buildFlight
}

// buildFlight is the context of an in-progress build and the number of
// callers waiting on it. The build is canceled when the last waiter leaves.
type buildFlight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Layer owns the accents of one registry and their inventories.
//
// Inventories are built on first request, at most once per accent: concurrent
// requests share one build. A failed or canceled build returns the accent to
// Uninitialized, so no partial inventory is ever observable, and a later
// request may build again. Ready is terminal.
//
// Layer is safe for concurrent use.
type Layer struct {
	reg        *symbol.Registry
	logger     *slog.Logger
	ids        inventory.BuildIDGenerator
	checkEvery int

	mu      sync.Mutex
	entries map[string]*entry
	order   []string
	flight  singleflight.Group
}

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithLogger sets the logger for build diagnostics.
func WithLogger(l *slog.Logger) LayerOption {
	return func(layer *Layer) { layer.logger = l }
}

// WithBuildIDGenerator sets the generator for inventory build ids.
func WithBuildIDGenerator(g inventory.BuildIDGenerator) LayerOption {
	return func(layer *Layer) { layer.ids = g }
}

// NewLayer creates an empty layer over reg.
func NewLayer(reg *symbol.Registry, opts ...LayerOption) *Layer {
	l := &Layer{
		reg:        reg,
		logger:     slog.Default(),
		ids:        inventory.UUIDv7Generator{},
		checkEvery: defaultCheckEvery,
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the layer's registry.
func (l *Layer) Registry() *symbol.Registry { return l.reg }

// Register adds a compiled accent. Names are unique within a layer.
func (l *Layer) Register(a *Accent) error {
	if a.Registry() != l.reg {
		return fmt.Errorf("accent %s: compiled against a different registry", a.Name())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.entries[a.Name()]; dup {
		return fmt.Errorf("accent %s: already registered", a.Name())
	}
	l.entries[a.Name()] = &entry{accent: a}
	l.order = append(l.order, a.Name())
	return nil
}

// Define compiles def and registers the result.
func (l *Layer) Define(def Definition) (*Accent, error) {
	a, err := New(l.reg, def)
	if err != nil {
		return nil, err
	}
	if err := l.Register(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Accent returns a registered accent.
func (l *Layer) Accent(name string) (*Accent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return nil, false
	}
	return e.accent, true
}

// Accents returns the registered accent names in registration order.
func (l *Layer) Accents() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// Status returns the inventory state of an accent.
func (l *Layer) Status(name string) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return Uninitialized, &UnknownAccentError{Name: name}
	}
	return e.state, nil
}

// LastError returns the error of the accent's most recent failed build. It is
// cleared when a build succeeds.
func (l *Layer) LastError(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[name]; ok {
		return e.lastErr
	}
	return nil
}

// BuildCount returns how many builds have been started for an accent.
func (l *Layer) BuildCount(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[name]; ok {
		return e.builds
	}
	return 0
}

// Inventory returns the accent's inventory, building it if needed.
//
// The build does not run under any one caller's context. Every caller waits
// on it until the inventory is ready or its own context ends; a caller that
// gives up returns its context error, and the build is canceled only once
// no caller is waiting. A caller that started the build can therefore give
// up without failing the callers that joined it.
func (l *Layer) Inventory(ctx context.Context, name string) (*inventory.Inventory, error) {
	for {
		l.mu.Lock()
		e, ok := l.entries[name]
		if !ok {
			l.mu.Unlock()
			return nil, &UnknownAccentError{Name: name}
		}
		if e.state == Ready {
			inv := e.inv
			l.mu.Unlock()
			return inv, nil
		}
		f := e.flight
		if f == nil {
			bctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
			f = &buildFlight{ctx: bctx, cancel: cancel}
			e.flight = f
		}
		f.waiters++
		l.mu.Unlock()

		inv, err := l.await(ctx, e, f)
		if err != nil && ctx.Err() == nil && errors.Is(err, context.Canceled) {
			// Joined a build its waiters had already abandoned.
			continue
		}
		return inv, err
	}
}

func (l *Layer) await(ctx context.Context, e *entry, f *buildFlight) (*inventory.Inventory, error) {
	defer l.leave(e, f)

	ch := l.flight.DoChan(e.accent.Name(), func() (any, error) {
		return l.build(f.ctx, e)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*inventory.Inventory), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// leave drops a waiter from f and cancels the build when it was the last.
func (l *Layer) leave(e *entry, f *buildFlight) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if e.flight == f {
		e.flight = nil
	}
}

// Lookup returns a Ready inventory without building.
func (l *Layer) Lookup(name string) (*inventory.Inventory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return nil, &UnknownAccentError{Name: name}
	}
	if e.state != Ready {
		return nil, &NotReadyError{Accent: name, State: e.state}
	}
	return e.inv, nil
}

// Reduce maps a universal bundle to its phoneme in the accent's inventory.
// The inventory must already be built.
//
// A bundle some symbol resolves to must pass the accent's realizability
// predicate. A bundle no symbol resolves to maps to a phoneme only when it
// is that phoneme's reduced bundle, so reducing a phoneme's bundle again is
// stable.
func (l *Layer) Reduce(name string, b feature.Bundle) (*inventory.Phoneme, error) {
	inv, err := l.Lookup(name)
	if err != nil {
		return nil, err
	}
	a, _ := l.Accent(name)

	reduced, err := a.Reduce(b)
	if err != nil {
		return nil, err
	}

	if _, err := l.reg.CanonicalSymbolFor(b); err != nil {
		if reduced.Equal(b) {
			if p, ok := inv.ForBundle(b); ok {
				return p, nil
			}
		}
		return nil, &UnrealizableError{Accent: name, Bundle: b.String()}
	}

	ok, err := a.Realizable(b)
	if err != nil {
		return nil, fmt.Errorf("accent %s: %w", name, err)
	}
	if ok {
		if p, found := inv.ForBundle(reduced); found {
			return p, nil
		}
	}
	return nil, &UnrealizableError{Accent: name, Bundle: b.String()}
}

func (l *Layer) build(ctx context.Context, e *entry) (*inventory.Inventory, error) {
	name := e.accent.Name()

	l.mu.Lock()
	if e.state == Ready {
		inv := e.inv
		l.mu.Unlock()
		return inv, nil
	}
	e.state = Building
	e.builds++
	l.mu.Unlock()

	start := time.Now()
	inv, err := buildInventory(ctx, e.accent, l.ids, l.checkEvery)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		e.state = Uninitialized
		e.lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			l.logger.Info("inventory build canceled", "accent", name, "error", err)
		} else {
			l.logger.Warn("inventory build failed", "accent", name, "error", err)
		}
		return nil, err
	}
	e.state = Ready
	e.inv = inv
	e.lastErr = nil
	l.logger.Info("inventory built",
		"accent", name,
		"phonemes", inv.Len(),
		"skipped", len(inv.Skipped()),
		"build_id", inv.BuildID(),
		"duration", time.Since(start))
	return inv, nil
}
