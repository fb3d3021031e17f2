// Package export copies a parsed dataset into a relational database.
//
// Each registered table becomes one SQL table whose column types follow the
// coercion rules (integer columns become BIGINT, JSON columns JSONB, and so
// on). Tables seen in the dump but missing from the registry have no column
// mapping and are skipped.
package export

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/JonMunkholm/pimpoyo/internal/core"
)

// Exporter writes a dataset to one target.
type Exporter interface {
	Name() string
	Export(ctx context.Context, ds *core.Dataset) (Result, error)
}

// TableResult is the outcome for one table.
type TableResult struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Result summarizes an export run.
type Result struct {
	Target   string        `json:"target"`
	Tables   []TableResult `json:"tables"`
	Skipped  []string      `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
}

// TotalRows sums the rows written across tables.
func (r Result) TotalRows() int64 {
	var n int64
	for _, t := range r.Tables {
		n += t.Rows
	}
	return n
}

// Dialect selects SQL type names and value encodings.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// Plan splits the dataset's tables into exportable registered tables and
// skipped unregistered ones, both in dataset order.
func Plan(ds *core.Dataset) (defs []core.TableDefinition, skipped []string) {
	for _, table := range ds.Tables() {
		def, ok := core.Get(table)
		if !ok {
			skipped = append(skipped, table)
			continue
		}
		defs = append(defs, def)
	}
	return defs, skipped
}

// SQLType returns the column type for a coercion rule.
func SQLType(d Dialect, ft core.FieldType) string {
	switch ft {
	case core.FieldInteger:
		if d == SQLite {
			return "INTEGER"
		}
		return "BIGINT"
	case core.FieldFloat:
		if d == SQLite {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case core.FieldBool:
		if d == SQLite {
			return "INTEGER"
		}
		return "BOOLEAN"
	case core.FieldJSON:
		if d == SQLite {
			return "TEXT"
		}
		return "JSONB"
	default:
		return "TEXT"
	}
}

// QuoteIdent quotes a SQL identifier, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL returns the CREATE TABLE statement for def. table is the
// already quoted (and possibly schema-qualified) table name.
func CreateTableSQL(d Dialect, table string, def core.TableDefinition) string {
	cols := make([]string, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		cols[i] = QuoteIdent(spec.Name) + " " + SQLType(d, spec.Type)
	}
	return "CREATE TABLE IF NOT EXISTS " + table + " (\n  " + strings.Join(cols, ",\n  ") + "\n)"
}

// Columns returns the column names of def in schema order.
func Columns(def core.TableDefinition) []string {
	cols := make([]string, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		cols[i] = spec.Name
	}
	return cols
}

// RowValues converts a row into driver values in schema order.
//
// NULL and the NaN marker both become nil. Structured values are encoded as
// JSON. A JSON column holding a fallback string is stored as a JSON string
// literal on Postgres, so the JSONB column stays valid, and verbatim on SQLite.
func RowValues(d Dialect, def core.TableDefinition, row core.Row) ([]any, error) {
	out := make([]any, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		v, err := driverValue(d, spec.Type, row.Get(spec.Name))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func driverValue(d Dialect, ft core.FieldType, v core.Value) (any, error) {
	switch v.Kind {
	case core.KindNull:
		return nil, nil
	case core.KindInteger:
		return v.Int, nil
	case core.KindFloat:
		if v.IsNaN() {
			return nil, nil
		}
		return v.Float, nil
	case core.KindBoolean:
		return v.Bool, nil
	case core.KindStructured:
		b, err := json.Marshal(v.Structured)
		if err != nil {
			return nil, err
		}
		if d == SQLite {
			return string(b), nil
		}
		return b, nil
	default:
		if ft == core.FieldJSON && d == Postgres {
			return json.Marshal(v.Str)
		}
		return v.Str, nil
	}
}
