package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", IRString("hello"), `"hello"`},
		{"plain string", "p", `"p"`},
		{"empty string", IRString(""), `""`},
		{"int", IRInt(42), "42"},
		{"negative int", IRInt(-100), "-100"},
		{"go int64", int64(7), "7"},
		{"go int", 3, "3"},
		{"bool", IRBool(true), "true"},
		{"go bool", false, "false"},
		{"empty array", IRArray{}, "[]"},
		{"empty object", IRObject{}, "{}"},
		{"string slice", []string{"consonant", "vowel"}, `["consonant","vowel"]`},
		{"string map", map[string]string{"voice": "+", "place": "velar"}, `{"place":"velar","voice":"+"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := IRObject{
		"z": IRObject{"b": IRInt(1), "a": IRInt(2)},
		"a": IRArray{IRString("x"), IRObject{"d": IRBool(true), "c": IRBool(false)}},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x",{"c":false,"d":true}],"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as a surrogate pair starting 0xD800, which sorts
	// before U+E000 in UTF-16 but after it in UTF-8.
	obj := IRObject{
		"\uE000":     IRInt(1),
		"\U00010000": IRInt(2),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// c + combining cedilla composes to U+00E7; a ring above a script g has
	// no precomposed form and stays as two code points.
	result, err := MarshalCanonical(IRArray{IRString("c\u0327"), IRString("\u0261\u030a")})
	require.NoError(t, err)
	assert.Equal(t, "[\"\u00e7\",\"\u0261\u030a\"]", string(result))

	// Keys are normalized too.
	result, err = MarshalCanonical(IRObject{"a\u0303": IRInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "{\"\u00e3\":1}", string(result))
}

func TestMarshalCanonicalEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"no html escaping", "<&>", `"<&>"`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"ipa literal", "t\u0361\u0283\u02b0", "\"t\u0361\u0283\u02b0\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(IRString(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		errMsg string
	}{
		{"null", nil, "null is forbidden"},
		{"float", 1.5, "floats are forbidden"},
		{"float32", float32(1), "floats are forbidden"},
		{"unsupported", struct{}{}, "unsupported type"},
		{"nested null", IRObject{"k": nil}, `value for key "k"`},
		{"nested in array", IRArray{IRInt(1), nil}, "array[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSortedKeys(t *testing.T) {
	obj := IRObject{"voice": IRInt(1), "aspirated": IRInt(2), "place": IRInt(3)}
	assert.Equal(t, []string{"aspirated", "place", "voice"}, obj.SortedKeys())
	assert.Empty(t, IRObject{}.SortedKeys())
}
