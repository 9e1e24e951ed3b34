package features

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// ErrInvalidSchema is returned when the frozen column list cannot be used.
var ErrInvalidSchema = errors.New("features: invalid schema")

// Schema is the ordered list of auxiliary columns the model was trained with.
type Schema struct {
	columns []string
}

// NewSchema builds a Schema. Column names must be unique and non-empty.
func NewSchema(columns []string) (Schema, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" {
			return Schema{}, fmt.Errorf("%w: empty column name", ErrInvalidSchema)
		}
		if _, dup := seen[c]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, c)
		}
		seen[c] = struct{}{}
	}
	return Schema{columns: append([]string(nil), columns...)}, nil
}

// LoadSchema reads a JSON array of column names.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- artifact path comes from operator config
	if err != nil {
		return Schema{}, fmt.Errorf("features: read schema: %w", err)
	}
	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return NewSchema(columns)
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Has reports whether column is part of the schema.
func (s Schema) Has(column string) bool {
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Columns returns a copy of the column names in order.
func (s Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Align returns one value per schema column, in schema order. Columns missing
// from computed are zero and columns outside the schema are dropped.
func (s Schema) Align(computed map[string]float64) []float64 {
	out := make([]float64, len(s.columns))
	for i, c := range s.columns {
		out[i] = computed[c]
	}
	return out
}
