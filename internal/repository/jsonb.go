package repository

import (
	"encoding/json"
	"fmt"
)

// jsonbValue marshals a field for a JSONB column, mapping nil to SQL NULL.
func jsonbValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode jsonb value: %w", err)
	}
	return raw, nil
}

// scanJSONB decodes a JSONB column into dst, tolerating NULL.
func scanJSONB(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("could not decode jsonb value: %w", err)
	}
	return nil
}
