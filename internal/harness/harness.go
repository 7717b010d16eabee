package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sound"
	"github.com/roach88/sound/internal/store"
	"github.com/roach88/sound/internal/testutil"
)

// BuildID is the build id of every inventory a scenario builds, so that
// traces and stored records are reproducible.
const BuildID = "harness-build"

// Harness executes one scenario against a freshly opened library.
type Harness struct {
	lib    *sound.Library
	store  *store.Store
	logger *slog.Logger
}

// outcome is what a step produced: the traced output and the bundle the
// step ended on, for feature expectations.
type outcome struct {
	output   map[string]string
	features map[string]string
}

// Run executes a scenario and returns the result.
//
// Each scenario opens its own library and an in-memory inventory store.
// Inventories built by the flow or the assertions are written to the
// store.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a context for inventory builds.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := []sound.Option{
		sound.WithLogger(logger),
		sound.WithBuildIDGenerator(testutil.NewFixedBuildIDGenerator(BuildID)),
		sound.WithAccentFiles(scenario.Accents...),
		sound.WithMaxModifiers(scenario.MaxModifiers),
	}
	if scenario.Table != "" {
		opts = append(opts, sound.WithTableFile(scenario.Table))
	}
	lib, err := sound.Open(opts...)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{lib: lib, store: st, logger: logger}

	result := NewResult()
	for i, step := range scenario.Flow {
		h.executeStep(ctx, i, step, result)
	}
	for _, msg := range h.EvaluateAssertions(ctx, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeStep runs one flow step, traces it and checks its expect clause.
func (h *Harness) executeStep(ctx context.Context, index int, step FlowStep, result *Result) {
	ev := TraceEvent{Op: step.Op, Input: stepInput(step)}
	out, err := h.perform(ctx, step)
	if err != nil {
		ev.Error = errorCode(err)
	} else {
		ev.Output = out.output
	}
	result.AddTrace(ev)

	for _, msg := range checkExpect(step.Expect, out, err) {
		result.AddError(fmt.Sprintf("flow[%d] %s %s: %s", index, step.Op, ev.Input, msg))
	}
	h.logger.Debug("step executed", "index", index, "op", step.Op, "input", ev.Input, "error", ev.Error)
}

func (h *Harness) perform(ctx context.Context, step FlowStep) (outcome, error) {
	switch step.Op {
	case OpResolve:
		s, err := h.parseSymbol(step.Symbol)
		if err != nil {
			return outcome{}, err
		}
		b, err := h.lib.Resolve(s)
		if err != nil {
			return outcome{}, err
		}
		return h.symbolOutcome(s, b)

	case OpParse:
		s, err := h.lib.Parse(step.Symbol)
		if err != nil {
			return outcome{}, err
		}
		ipa, err := h.lib.Render(s)
		if err != nil {
			return outcome{}, err
		}
		return outcome{output: map[string]string{"symbol": s.String(), "ipa": ipa}}, nil

	case OpCanonical:
		b, err := h.lib.Bundle(sound.Category(step.Category), step.Features)
		if err != nil {
			return outcome{}, err
		}
		s, err := h.lib.CanonicalSymbolFor(b)
		if err != nil {
			return outcome{}, err
		}
		return h.symbolOutcome(s, b)

	case OpReduce:
		s, err := h.parseSymbol(step.Symbol)
		if err != nil {
			return outcome{}, err
		}
		p, err := h.lib.PhonemeFor(ctx, step.Accent, s)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			output:   map[string]string{"symbol": s.String(), "phoneme": p.ID()},
			features: p.Bundle().Map(),
		}, nil

	case OpInventory:
		inv, err := h.inventory(ctx, step.Accent)
		if err != nil {
			return outcome{}, err
		}
		return outcome{output: map[string]string{
			"size":    strconv.Itoa(inv.Len()),
			"skipped": strconv.Itoa(len(inv.Skipped())),
		}}, nil
	}
	return outcome{}, fmt.Errorf("unknown op %q", step.Op)
}

func (h *Harness) symbolOutcome(s sound.Symbol, b sound.Bundle) (outcome, error) {
	ipa, err := h.lib.Render(s)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		output:   map[string]string{"symbol": s.String(), "ipa": ipa},
		features: b.Map(),
	}, nil
}

// inventory builds an accent's inventory and records it in the store.
func (h *Harness) inventory(ctx context.Context, accent string) (*sound.Inventory, error) {
	inv, err := h.lib.Inventory(ctx, accent)
	if err != nil {
		return nil, err
	}
	if _, err := h.store.WriteInventory(ctx, inv.Record()); err != nil {
		return nil, fmt.Errorf("store inventory: %w", err)
	}
	return inv, nil
}

// parseSymbol reads IPA or key form.
func (h *Harness) parseSymbol(in string) (sound.Symbol, error) {
	if strings.HasSuffix(in, "]") && strings.Contains(in, "[") {
		return sound.ParseSymbolKey(in), nil
	}
	return h.lib.Parse(in)
}

// stepInput renders a step's arguments for the trace.
func stepInput(step FlowStep) string {
	switch step.Op {
	case OpCanonical:
		parts := []string{step.Category}
		for _, k := range slices.Sorted(maps.Keys(step.Features)) {
			parts = append(parts, k+"="+step.Features[k])
		}
		return strings.Join(parts, " ")
	case OpReduce:
		return step.Accent + " " + step.Symbol
	case OpInventory:
		return step.Accent
	}
	return step.Symbol
}

// errorCode is the stable code of a library error, or "ERROR".
func errorCode(err error) string {
	if code := sound.ErrorCode(err); code != "" {
		return code
	}
	return "ERROR"
}

// checkExpect compares a step's outcome with its expect clause and returns
// the mismatches.
func checkExpect(e *ExpectClause, out outcome, err error) []string {
	if e == nil {
		if err != nil {
			return []string{fmt.Sprintf("unexpected error: %v", err)}
		}
		return nil
	}
	if e.Error != "" {
		switch {
		case err == nil:
			return []string{fmt.Sprintf("expected error %s, got success", e.Error)}
		case errorCode(err) != e.Error:
			return []string{fmt.Sprintf("expected error %s, got %s (%v)", e.Error, errorCode(err), err)}
		}
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}

	var msgs []string
	check := func(field, want string) {
		if want == "" {
			return
		}
		if got := out.output[field]; got != norm.NFC.String(want) {
			msgs = append(msgs, fmt.Sprintf("%s: expected %q, got %q", field, want, got))
		}
	}
	check("symbol", e.Symbol)
	check("ipa", e.IPA)
	check("phoneme", e.Phoneme)
	if e.Size != nil {
		check("size", strconv.Itoa(*e.Size))
	}
	for _, name := range slices.Sorted(maps.Keys(e.Features)) {
		want := e.Features[name]
		got, ok := out.features[name]
		if !ok {
			msgs = append(msgs, fmt.Sprintf("feature %s: not in result", name))
			continue
		}
		if got != want {
			msgs = append(msgs, fmt.Sprintf("feature %s: expected %q, got %q", name, want, got))
		}
	}
	return msgs
}
