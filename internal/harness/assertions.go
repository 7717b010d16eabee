package harness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sound"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Accent   string
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Type, e.Accent)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions evaluates all assertions and returns the failure
// messages. Inventories the assertions need are built on demand.
func (h *Harness) EvaluateAssertions(ctx context.Context, assertions []Assertion) []string {
	var msgs []string
	for i, a := range assertions {
		if err := h.evaluate(ctx, a); err != nil {
			msgs = append(msgs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return msgs
}

func (h *Harness) evaluate(ctx context.Context, a Assertion) error {
	inv, err := h.inventory(ctx, a.Accent)
	if err != nil {
		return err
	}

	switch a.Type {
	case AssertInventorySize:
		if inv.Len() != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Accent:   a.Accent,
				Expected: fmt.Sprintf("%d phonemes", a.Count),
				Actual:   fmt.Sprintf("%d phonemes", inv.Len()),
			}
		}
		return nil

	case AssertSamePhoneme, AssertDistinctPhonemes:
		ids := make([]string, len(a.Symbols))
		for i, in := range a.Symbols {
			s, err := h.parseSymbol(in)
			if err != nil {
				return err
			}
			p, err := h.lib.PhonemeFor(ctx, a.Accent, s)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			ids[i] = p.ID()
		}
		return checkPhonemes(a, ids)

	case AssertSkipped:
		skipped := inv.Skipped()
		for _, in := range a.Symbols {
			s, err := h.canonicalSymbol(in)
			if err != nil {
				return err
			}
			if !slices.Contains(skipped, s) {
				return &AssertionError{
					Type:     a.Type,
					Accent:   a.Accent,
					Expected: fmt.Sprintf("%s skipped", in),
					Actual:   "realized",
				}
			}
		}
		return nil

	case AssertStoredPhoneme:
		for _, in := range a.Symbols {
			s, err := h.canonicalSymbol(in)
			if err != nil {
				return err
			}
			p, err := h.store.PhonemeForSymbol(ctx, inv.Fingerprint(), s.String())
			if errors.Is(err, sql.ErrNoRows) {
				return &AssertionError{
					Type:     a.Type,
					Accent:   a.Accent,
					Expected: fmt.Sprintf("%s stored as /%s/", in, a.Phoneme),
					Actual:   "not stored",
				}
			}
			if err != nil {
				return err
			}
			if p.ID != a.Phoneme {
				return &AssertionError{
					Type:     a.Type,
					Accent:   a.Accent,
					Expected: fmt.Sprintf("%s stored as /%s/", in, a.Phoneme),
					Actual:   fmt.Sprintf("/%s/", p.ID),
				}
			}
		}
		return nil
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// checkPhonemes compares the phoneme ids the assertion's symbols reduced to.
func checkPhonemes(a Assertion, ids []string) error {
	if a.Type == AssertSamePhoneme {
		for i, id := range ids[1:] {
			if id != ids[0] {
				return &AssertionError{
					Type:     a.Type,
					Accent:   a.Accent,
					Expected: fmt.Sprintf("%s and %s share a phoneme", a.Symbols[0], a.Symbols[i+1]),
					Actual:   fmt.Sprintf("/%s/ and /%s/", ids[0], id),
				}
			}
		}
		return nil
	}

	seen := make(map[string]string)
	for i, id := range ids {
		if prev, ok := seen[id]; ok {
			return &AssertionError{
				Type:     a.Type,
				Accent:   a.Accent,
				Expected: fmt.Sprintf("%s and %s in different phonemes", prev, a.Symbols[i]),
				Actual:   fmt.Sprintf("both /%s/", id),
			}
		}
		seen[id] = a.Symbols[i]
	}
	return nil
}

// canonicalSymbol resolves in and returns the registry's symbol for its
// bundle, so modifier order does not matter.
func (h *Harness) canonicalSymbol(in string) (sound.Symbol, error) {
	s, err := h.parseSymbol(in)
	if err != nil {
		return sound.Symbol{}, err
	}
	b, err := h.lib.Resolve(s)
	if err != nil {
		return sound.Symbol{}, err
	}
	return h.lib.CanonicalSymbolFor(b)
}
