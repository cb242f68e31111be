package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONMap is a custom type for JSONB columns holding opaque provider detail
// payloads.
type JSONMap map[string]any

// Value implements driver.Valuer for database storage.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}
