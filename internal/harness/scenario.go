package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario is a conformance scenario: a table and accents to load, a flow
// of lookups with expected outcomes, and assertions over the accents'
// inventories.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table is a .cue file or CUE package directory. Empty selects the
	// embedded table. Relative paths are resolved against the scenario file.
	Table string `yaml:"table,omitempty"`

	// Accents lists YAML accent files, resolved like Table.
	Accents []string `yaml:"accents,omitempty"`

	// MaxModifiers bounds the enumerated modifier sets when positive.
	MaxModifiers int `yaml:"max_modifiers,omitempty"`

	// Flow is executed in order. Every step is recorded in the trace.
	Flow []FlowStep `yaml:"flow"`

	// Assertions are evaluated after the flow.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step operations.
const (
	OpResolve   = "resolve"
	OpParse     = "parse"
	OpCanonical = "canonical"
	OpReduce    = "reduce"
	OpInventory = "inventory"
)

var validOps = []string{OpResolve, OpParse, OpCanonical, OpReduce, OpInventory}

// FlowStep is one library call.
//
//   - resolve, parse: Symbol
//   - canonical: Category and Features
//   - reduce: Accent and Symbol
//   - inventory: Accent
//
// Symbol is IPA ("tʰ") or key form ("t[aspirated]").
type FlowStep struct {
	Op       string            `yaml:"op"`
	Symbol   string            `yaml:"symbol,omitempty"`
	Accent   string            `yaml:"accent,omitempty"`
	Category string            `yaml:"category,omitempty"`
	Features map[string]string `yaml:"features,omitempty"`

	// Expect is checked against the step's outcome. If nil the step only
	// has to succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies a step's expected outcome. Empty fields are not
// checked; Features is a subset match.
type ExpectClause struct {
	Symbol   string            `yaml:"symbol,omitempty"`
	IPA      string            `yaml:"ipa,omitempty"`
	Phoneme  string            `yaml:"phoneme,omitempty"`
	Size     *int              `yaml:"size,omitempty"`
	Features map[string]string `yaml:"features,omitempty"`

	// Error is the expected error code. A step expecting an error fails if
	// it succeeds.
	Error string `yaml:"error,omitempty"`
}

// Assertion checks the inventories built during or after the flow.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Accent  string   `yaml:"accent"`
	Symbols []string `yaml:"symbols,omitempty"`

	// Count is the expected number of phonemes (inventory_size).
	Count int `yaml:"count,omitempty"`

	// Phoneme is the expected phoneme id (stored_phoneme).
	Phoneme string `yaml:"phoneme,omitempty"`
}

// Assertion type constants.
const (
	AssertSamePhoneme      = "same_phoneme"      // all symbols reduce to one phoneme
	AssertDistinctPhonemes = "distinct_phonemes" // no two symbols share a phoneme
	AssertInventorySize    = "inventory_size"    // the inventory has Count phonemes
	AssertSkipped          = "skipped"           // the accent cannot realize the symbols
	AssertStoredPhoneme    = "stored_phoneme"    // the stored inventory maps symbols to Phoneme
)

// LoadScenario reads and parses a scenario YAML file. Table and accent paths
// are resolved relative to the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Table != "" && !filepath.IsAbs(scenario.Table) {
		scenario.Table = filepath.Join(base, scenario.Table)
	}
	for i, p := range scenario.Accents {
		if !filepath.IsAbs(p) {
			scenario.Accents[i] = filepath.Join(base, p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", dir)
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	names := make(map[string]string)
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := names[s.Name]; dup {
			return nil, fmt.Errorf("scenario name %q used by %s and %s", s.Name, prev, p)
		}
		names[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if s.MaxModifiers < 0 {
		return fmt.Errorf("max_modifiers must not be negative")
	}

	if s.Table != "" {
		if _, err := os.Stat(s.Table); err != nil {
			return fmt.Errorf("table: %w", err)
		}
	}
	for i, p := range s.Accents {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("accents[%d]: %w", i, err)
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step FlowStep) error {
	if !slices.Contains(validOps, step.Op) {
		return fmt.Errorf("flow[%d]: unknown op %q", index, step.Op)
	}
	switch step.Op {
	case OpResolve, OpParse:
		if step.Symbol == "" {
			return fmt.Errorf("flow[%d]: symbol is required for %s", index, step.Op)
		}
	case OpCanonical:
		if step.Category == "" {
			return fmt.Errorf("flow[%d]: category is required for canonical", index)
		}
	case OpReduce:
		if step.Accent == "" || step.Symbol == "" {
			return fmt.Errorf("flow[%d]: accent and symbol are required for reduce", index)
		}
	case OpInventory:
		if step.Accent == "" {
			return fmt.Errorf("flow[%d]: accent is required for inventory", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Accent == "" {
		return fmt.Errorf("assertions[%d]: accent is required", index)
	}

	switch a.Type {
	case AssertSamePhoneme, AssertDistinctPhonemes:
		if len(a.Symbols) < 2 {
			return fmt.Errorf("assertions[%d]: %s needs at least two symbols", index, a.Type)
		}
	case AssertSkipped:
		if len(a.Symbols) == 0 {
			return fmt.Errorf("assertions[%d]: symbols list is required for skipped", index)
		}
	case AssertInventorySize:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for inventory_size", index)
		}
	case AssertStoredPhoneme:
		if len(a.Symbols) == 0 || a.Phoneme == "" {
			return fmt.Errorf("assertions[%d]: symbols and phoneme are required for stored_phoneme", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
