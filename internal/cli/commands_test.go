package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode unmarshals a JSON response and its data into data.
func decode(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var resp struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if data != nil && resp.Data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp.CLIResponse
}

func TestResolve_DefaultTable(t *testing.T) {
	out, _, err := execute(t, "resolve", "tʰ", "t[aspirated]")
	require.NoError(t, err)
	assert.Contains(t, out, "t[aspirated]")
	assert.Contains(t, out, "+aspirated")
}

func TestResolve_JSON(t *testing.T) {
	args := append(miniArgs(t), "--format", "json", "resolve", "b")
	out, _, err := execute(t, args...)
	require.NoError(t, err)

	var results []SymbolResult
	resp := decode(t, out, &results)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Symbol)
	assert.Equal(t, "consonant", results[0].Category)
	assert.Equal(t, "+", results[0].Features["voice"])
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		code     string
		exitCode int
	}{
		{"collision", "p[voiced]", "SYMBOL_COLLISION", ExitFailure},
		{"unparseable", "x", "UNPARSEABLE_SYMBOL", ExitFailure},
		{"unknown glyph", "x[voiced]", "UNKNOWN_BASE_GLYPH", ExitFailure},
		{"malformed key", "p]", ErrCodeInvalidArgs, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(miniArgs(t), "resolve", tt.symbol)
			out, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestParse(t *testing.T) {
	args := append(miniArgs(t), "parse", "p", "b\u032C")
	out, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "p -> p (p)\n")
	assert.Contains(t, out, "-> b[voiced]")
}

func TestParse_JSONModifiersNeverNull(t *testing.T) {
	args := append(miniArgs(t), "--format", "json", "parse", "p")
	out, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, `"modifiers":[]`)
}

func TestCanonical(t *testing.T) {
	args := append(miniArgs(t), "canonical", "consonant", "voice=+")
	out, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "b\tb\n", out)
}

func TestCanonical_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     string
		exitCode int
	}{
		{"bad category", []string{"fricative"}, ErrCodeInvalidArgs, ExitCommandError},
		{"missing value", []string{"consonant", "voice"}, ErrCodeInvalidArgs, ExitCommandError},
		{"value out of domain", []string{"consonant", "voice=maybe"}, "INVALID_FEATURE_VALUE", ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(miniArgs(t), "canonical")
			out, _, err := execute(t, append(args, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestAccents(t *testing.T) {
	out, _, err := execute(t, "accents")
	require.NoError(t, err)
	assert.Contains(t, out, "genam")
	assert.Contains(t, out, "General American English")
	assert.Contains(t, out, "narrow")
}

func TestAccents_JSON(t *testing.T) {
	args := append(miniArgs(t), "--format", "json", "accents")
	out, _, err := execute(t, args...)
	require.NoError(t, err)

	var infos []AccentInfo
	decode(t, out, &infos)
	assert.Equal(t, []AccentInfo{{Name: "plain", Description: "no voicing contrast", Status: "uninitialized"}}, infos)
}

func TestAccents_YAML(t *testing.T) {
	out, _, err := execute(t, "accents", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "accents:\n")
	assert.Contains(t, out, "name: genam")
}

func TestInventory(t *testing.T) {
	args := append(miniArgs(t), "inventory", "plain")
	out, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "/p/")
	assert.Contains(t, out, "p b")
	assert.Contains(t, out, "1 phonemes, 0 symbols skipped")
}

func TestInventory_UnknownAccent(t *testing.T) {
	args := append(miniArgs(t), "inventory", "klingon")
	out, _, err := execute(t, args...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [UNKNOWN_ACCENT]")
}

func TestReduce(t *testing.T) {
	args := append(miniArgs(t), "reduce", "plain", "b", "p")
	out, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "b\t/p/\np\t/p/\n", out)
}

func TestReduce_DefaultTable(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "reduce", "genam", "tʰ")
	require.NoError(t, err)

	var results []ReduceResult
	decode(t, out, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "t", results[0].Phoneme)
}

func TestValidate_DefaultTable(t *testing.T) {
	out, _, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Table ipa-2026.2 valid")
}

func TestValidate_TableFile(t *testing.T) {
	args := miniArgs(t)
	out, _, err := execute(t, append(args, "--format", "json", "validate")...)
	require.NoError(t, err)

	var result ValidationResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, "mini-1", result.Version)
	assert.Equal(t, 2, result.Symbols)
	assert.Equal(t, []string{"plain"}, result.Accents)
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "table.cue")
	accents := filepath.Join(dir, "accents.yaml")
	src := strings.Replace(miniTable, "\t]\n}\n", `		{name: "devoiced", diacritic: "\u0325", priority: 1, categories: ["consonant"],
			effects: [{feature: "voice", value: "-"}]},
	]
}
`, 1)
	require.NoError(t, os.WriteFile(table, []byte(src), 0644))
	require.NoError(t, os.WriteFile(accents, []byte("accents:\n  - name: bad\n    rules:\n      - feature: tone\n"), 0644))

	out, _, err := execute(t, "--accents", accents, "validate", table)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "[E231]")
	assert.Contains(t, out, "[E240] "+accents+": accents[0].rules[0].feature")
}

func TestValidate_MissingTable(t *testing.T) {
	out, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestExportAndStored(t *testing.T) {
	args := miniArgs(t)
	db := filepath.Join(t.TempDir(), "sound.db")
	args = append(args, "--store", db)

	out, _, err := execute(t, append(args, "--format", "json", "export", "plain")...)
	require.NoError(t, err)
	var exported ExportResult
	decode(t, out, &exported)
	assert.True(t, exported.Stored)
	assert.True(t, exported.Inserted)
	fingerprint := exported.Record.Fingerprint
	require.NotEmpty(t, fingerprint)
	require.Len(t, exported.Record.Phonemes, 1)

	// A second build has a new build id but the same content.
	out, _, err = execute(t, append(args, "--format", "json", "export", "plain")...)
	require.NoError(t, err)
	var again ExportResult
	decode(t, out, &again)
	assert.Equal(t, fingerprint, again.Record.Fingerprint)
	assert.False(t, again.Inserted)

	out, _, err = execute(t, append(args, "stored")...)
	require.NoError(t, err)
	assert.Contains(t, out, fingerprint)
	assert.Contains(t, out, "1 phonemes")

	out, _, err = execute(t, append(args, "stored", "--accent", "plain")...)
	require.NoError(t, err)
	assert.Contains(t, out, "plain "+fingerprint)
	assert.Contains(t, out, "/p/")

	out, _, err = execute(t, append(args, "stored", fingerprint, "--symbol", "b")...)
	require.NoError(t, err)
	assert.Equal(t, "b\t/p/\n", out)

	out, _, err = execute(t, append(args, "stored", fingerprint, "--symbol", "q")...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestExport_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	args := append(miniArgs(t), "export", "plain", "-o", path)
	out, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "plain", rec["accent"])
}

func TestInventory_Stores(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sound.db")
	args := append(miniArgs(t), "--store", db, "--format", "json", "inventory", "plain")
	out, _, err := execute(t, args...)
	require.NoError(t, err)

	var info InventoryInfo
	decode(t, out, &info)
	require.NotNil(t, info.Stored)
	assert.True(t, *info.Stored)
}

func TestStored_RequiresStore(t *testing.T) {
	out, _, err := execute(t, "stored")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}
