package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// miniScenario returns a scenario over the mini table with the given flow.
func miniScenario(flow []FlowStep, assertions ...Assertion) *Scenario {
	return &Scenario{
		Name:        "mini",
		Description: "test",
		Table:       filepath.Join("testdata", "mini.cue"),
		Accents:     []string{filepath.Join("testdata", "accents.yaml")},
		Flow:        flow,
		Assertions:  assertions,
	}
}

func intPtr(n int) *int { return &n }

func TestRunScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Trace(t *testing.T) {
	result, err := Run(miniScenario([]FlowStep{
		{Op: OpResolve, Symbol: "b"},
		{Op: OpResolve, Symbol: "p[voiced]", Expect: &ExpectClause{Error: "SYMBOL_COLLISION"}},
		{Op: OpInventory, Accent: "identity", Expect: &ExpectClause{Size: intPtr(2)}},
	}))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, TraceEvent{
		Seq:    1,
		Op:     OpResolve,
		Input:  "b",
		Output: map[string]string{"symbol": "b", "ipa": "b"},
	}, result.Trace[0])
	assert.Equal(t, "SYMBOL_COLLISION", result.Trace[1].Error)
	assert.Nil(t, result.Trace[1].Output)
	assert.Equal(t, map[string]string{"size": "2", "skipped": "0"}, result.Trace[2].Output)
}

func TestRun_ExpectMismatches(t *testing.T) {
	tests := []struct {
		name    string
		step    FlowStep
		wantErr string
	}{
		{
			name:    "wrong symbol",
			step:    FlowStep{Op: OpResolve, Symbol: "p", Expect: &ExpectClause{Symbol: "b"}},
			wantErr: `symbol: expected "b", got "p"`,
		},
		{
			name:    "wrong feature",
			step:    FlowStep{Op: OpResolve, Symbol: "p", Expect: &ExpectClause{Features: map[string]string{"voice": "+"}}},
			wantErr: `feature voice: expected "+", got "-"`,
		},
		{
			name:    "missing feature",
			step:    FlowStep{Op: OpResolve, Symbol: "p", Expect: &ExpectClause{Features: map[string]string{"tone": "high"}}},
			wantErr: "feature tone: not in result",
		},
		{
			name:    "expected error but succeeded",
			step:    FlowStep{Op: OpResolve, Symbol: "p", Expect: &ExpectClause{Error: "SYMBOL_COLLISION"}},
			wantErr: "expected error SYMBOL_COLLISION, got success",
		},
		{
			name:    "wrong error",
			step:    FlowStep{Op: OpReduce, Accent: "klingon", Symbol: "p", Expect: &ExpectClause{Error: "SYMBOL_COLLISION"}},
			wantErr: "expected error SYMBOL_COLLISION, got UNKNOWN_ACCENT",
		},
		{
			name:    "unexpected error",
			step:    FlowStep{Op: OpParse, Symbol: "x"},
			wantErr: "unexpected error",
		},
		{
			name:    "wrong phoneme",
			step:    FlowStep{Op: OpReduce, Accent: "identity", Symbol: "b", Expect: &ExpectClause{Phoneme: "p"}},
			wantErr: `phoneme: expected "p", got "b"`,
		},
		{
			name:    "wrong size",
			step:    FlowStep{Op: OpInventory, Accent: "plain", Expect: &ExpectClause{Size: intPtr(2)}},
			wantErr: `size: expected "2", got "1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(miniScenario([]FlowStep{tt.step}))
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], "flow[0] "+tt.step.Op)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestRun_InvalidTable(t *testing.T) {
	scenario := miniScenario([]FlowStep{{Op: OpResolve, Symbol: "p"}})
	scenario.Table = filepath.Join(t.TempDir(), "broken.cue")
	require.NoError(t, os.WriteFile(scenario.Table, []byte("table: {"), 0644))

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open library")
}

func TestStepInput(t *testing.T) {
	assert.Equal(t, "consonant place=velar voice=+", stepInput(FlowStep{
		Op:       OpCanonical,
		Category: "consonant",
		Features: map[string]string{"voice": "+", "place": "velar"},
	}))
	assert.Equal(t, "genam tʰ", stepInput(FlowStep{Op: OpReduce, Accent: "genam", Symbol: "tʰ"}))
	assert.Equal(t, "genam", stepInput(FlowStep{Op: OpInventory, Accent: "genam"}))
	assert.Equal(t, "p", stepInput(FlowStep{Op: OpParse, Symbol: "p"}))
}
