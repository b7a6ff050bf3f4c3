package records

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSeed decodes a YAML list of fixtures. The document is bridged through
// JSON so record types only need their json tags.
func LoadSeed[T any](data []byte) ([]T, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("records: parse seed: %w", err)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("records: bridge seed: %w", err)
	}

	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("records: decode seed: %w", err)
	}
	return out, nil
}
