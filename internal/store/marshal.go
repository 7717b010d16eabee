package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sound/internal/ir"
)

// marshalBundle converts a phoneme bundle to canonical JSON TEXT.
func marshalBundle(bundle map[string]string) (string, error) {
	data, err := ir.MarshalCanonical(bundle)
	if err != nil {
		return "", fmt.Errorf("marshal bundle: %w", err)
	}
	return string(data), nil
}

// unmarshalBundle parses a stored bundle.
func unmarshalBundle(data string) (map[string]string, error) {
	bundle := map[string]string{}
	if data == "" {
		return bundle, nil
	}
	if err := json.Unmarshal([]byte(data), &bundle); err != nil {
		return nil, fmt.Errorf("unmarshal bundle: %w", err)
	}
	return bundle, nil
}
