package core

import (
	"sort"

	"github.com/goccy/go-json"
)

// Dataset is the finished result of one parse: table name -> ordered rows.
// It is never mutated after Finalize returns it; accessors hand out copies.
type Dataset struct {
	order       []string
	tables      map[string][]Row
	stats       ParseStats
	fingerprint string
}

// Tables returns table names in bucket-creation order: registered tables
// first, then unregistered tables in the order they were first seen.
func (d *Dataset) Tables() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Has reports whether the dataset has a bucket for table.
func (d *Dataset) Has(table string) bool {
	_, ok := d.tables[table]
	return ok
}

// Len returns the number of rows collected for table.
func (d *Dataset) Len(table string) int {
	return len(d.tables[table])
}

// Rows returns a copy of the rows collected for table.
// Unknown tables yield nil.
func (d *Dataset) Rows(table string) []Row {
	rows, ok := d.tables[table]
	if !ok {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}

// Each calls fn for every row of table in order until fn returns false.
// fn must not modify the row.
func (d *Dataset) Each(table string, fn func(i int, row Row) bool) {
	for i, r := range d.tables[table] {
		if !fn(i, r) {
			return
		}
	}
}

// Stats returns the parse summary.
func (d *Dataset) Stats() ParseStats {
	s := d.stats
	s.RowsByTable = make(map[string]int, len(d.tables))
	for k, rows := range d.tables {
		s.RowsByTable[k] = len(rows)
	}
	s.UnknownTables = append([]string(nil), d.stats.UnknownTables...)
	return s
}

// Fingerprint returns the xxh3 hash of the input text, hex encoded.
func (d *Dataset) Fingerprint() string {
	return d.fingerprint
}

// MarshalJSON encodes the dataset as {"table": [row, ...], ...}.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.tables)
}

// Assembler accumulates coerced rows into per-table buckets.
// One Assembler serves exactly one parse call.
type Assembler struct {
	ds   *Dataset
	defs map[string]TableDefinition
	seen map[string]bool
}

// NewAssembler creates an assembler with an empty bucket for every
// registered table.
func NewAssembler() *Assembler {
	a := &Assembler{
		ds: &Dataset{
			tables: make(map[string][]Row),
		},
		defs: make(map[string]TableDefinition),
		seen: make(map[string]bool),
	}
	for _, def := range All() {
		a.defs[def.Info.Key] = def
		a.bucket(def.Info.Key)
	}
	return a
}

// bucket creates the table's row slice on first sighting.
func (a *Assembler) bucket(table string) {
	if _, ok := a.ds.tables[table]; ok {
		return
	}
	a.ds.tables[table] = []Row{}
	a.ds.order = append(a.ds.order, table)
}

// Append coerces fields positionally against the table's schema and adds
// the row. Missing trailing fields become Null, extra fields are dropped.
// Unregistered tables get an empty row: the line is counted but has no
// column mapping.
func (a *Assembler) Append(table string, fields []string) Row {
	a.bucket(table)

	def, known := a.defs[table]
	if !known && !a.seen[table] {
		a.ds.stats.UnknownTables = append(a.ds.stats.UnknownTables, table)
	}
	a.seen[table] = true

	row := make(Row, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		if i >= len(fields) {
			row[spec.Name] = CoerceMissing()
			continue
		}
		v := Coerce(spec.Name, fields[i])
		switch {
		case v.IsNaN():
			a.ds.stats.NaNFields++
		case spec.Type == FieldJSON && v.Kind == KindString:
			a.ds.stats.JSONFallbacks++
		}
		row[spec.Name] = v
	}

	a.ds.tables[table] = append(a.ds.tables[table], row)
	a.ds.stats.DataRows++
	return row
}

// Finalize runs post-processing and returns the dataset. Tables with a
// SortKey are stably sorted ascending by that integer column.
// The assembler must not be used afterwards.
func (a *Assembler) Finalize() *Dataset {
	for table, def := range a.defs {
		if def.SortKey == "" {
			continue
		}
		sortRowsByKey(a.ds.tables[table], def.SortKey)
	}
	ds := a.ds
	a.ds = nil
	return ds
}

// sortRowsByKey stably sorts rows by an integer column. Rows whose key is
// not an integer (Null, NaN) go last and keep their relative order.
func sortRowsByKey(rows []Row, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := rows[i].Get(key), rows[j].Get(key)
		iok, jok := vi.Kind == KindInteger, vj.Kind == KindInteger
		switch {
		case iok && jok:
			return vi.Int < vj.Int
		case iok:
			return true
		default:
			return false
		}
	})
}
