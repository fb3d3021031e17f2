// Package core provides the dump parsing and type-coercion engine.
// This package has no UI dependencies and can be used by any frontend.
package core

import "time"

// FieldType represents how a raw dump token is coerced for a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInteger
	FieldFloat
	FieldBool
	FieldJSON
	FieldEncodingFix
)

// String returns the lowercase name of the field type.
func (t FieldType) String() string {
	switch t {
	case FieldInteger:
		return "integer"
	case FieldFloat:
		return "float"
	case FieldBool:
		return "boolean"
	case FieldJSON:
		return "json"
	case FieldEncodingFix:
		return "text_fixed"
	default:
		return "text"
	}
}

// FieldSpec describes a single positional column of a COPY block.
type FieldSpec struct {
	Name string    // Column name as it appears in the dump's COPY header
	Type FieldType // Coercion rule, resolved from the column rule table
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key     string   `json:"key"`     // Table name inside the dump: "users"
	Group   string   `json:"group"`   // Dashboard grouping: "Players", "Surveys"
	Label   string   `json:"label"`   // Display name: "Users"
	Columns []string `json:"columns"` // Ordered column names (positional contract)
}

// TableDefinition contains everything needed to assemble rows for a table.
type TableDefinition struct {
	Info       TableInfo
	FieldSpecs []FieldSpec

	// SortKey names an integer column the finalized rows are stably sorted by.
	// Empty means rows keep insertion order.
	SortKey string
}

// ParseStats summarizes a single parse call.
type ParseStats struct {
	Lines            int            `json:"lines"`
	Blocks           int            `json:"blocks"`
	DataRows         int            `json:"data_rows"`
	SkippedLines     int            `json:"skipped_lines"`
	IgnoredLines     int            `json:"ignored_lines"`
	InsertStatements int            `json:"insert_statements"`
	NaNFields        int            `json:"nan_fields"`
	JSONFallbacks    int            `json:"json_fallbacks"`
	UnknownTables    []string       `json:"unknown_tables,omitempty"`
	Unterminated     string         `json:"unterminated,omitempty"`
	RowsByTable      map[string]int `json:"rows_by_table"`
}

// ParseRun records one completed parse performed by the Service.
type ParseRun struct {
	ID          string        `json:"id"`
	Source      string        `json:"source"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Bytes       int64         `json:"bytes"`
	Fingerprint string        `json:"fingerprint"`
	Stats       ParseStats    `json:"stats"`
}

// ColumnAggregation holds aggregated values for a single numeric column.
type ColumnAggregation struct {
	Column string   `json:"column"`
	Sum    *float64 `json:"sum"` // nil if no valid values
	Avg    *float64 `json:"avg"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Count  int64    `json:"count"` // Count of non-null, non-NaN values
}

// Aggregations maps column names to their aggregation results.
type Aggregations map[string]*ColumnAggregation

// CategoryCount is one bucket of a categorical count.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
