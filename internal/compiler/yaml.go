package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sound/internal/ir"
)

// AccentFile is the YAML form of extra accents:
//
//	accents:
//	  - name: plain
//	    rules:
//	      - feature: aspirated
//	      - feature: length
//	        from: [long]
//	        to: short
//	    tolerate: "true"
type AccentFile struct {
	Accents []ir.AccentSpec `yaml:"accents"`
}

// ParseAccents decodes an accent file. Unknown fields are rejected.
func ParseAccents(data []byte) ([]ir.AccentSpec, error) {
	var f AccentFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return f.Accents, nil
}

// LoadAccents reads and decodes an accent file and validates each accent
// against the table's features.
func LoadAccents(path string, features []ir.FeatureSpec) ([]ir.AccentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accent file: %w", err)
	}
	accents, err := ParseAccents(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var errs ValidationErrors
	for i, a := range accents {
		for _, e := range ValidateAccent(a, features) {
			e.Field = fmt.Sprintf("accents[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", path, errs)
	}
	return accents, nil
}

// MarshalAccents encodes accents in the form ParseAccents reads.
func MarshalAccents(accents []ir.AccentSpec) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(AccentFile{Accents: accents}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
