package core

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownTable is returned when a dataset has no bucket for a table.
var ErrUnknownTable = errors.New("unknown table")

// ErrUnknownColumn is returned when a table schema has no such column.
var ErrUnknownColumn = errors.New("unknown column")

// Aggregate computes sum/avg/min/max/count for every integer and float column
// of a registered table. Null and NaN values are excluded; a column with no
// usable values keeps nil Sum/Avg/Min/Max and Count 0.
func Aggregate(ds *Dataset, table string) (Aggregations, error) {
	if !ds.Has(table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	def, ok := Get(table)
	if !ok {
		// Unregistered tables have no typed columns
		return Aggregations{}, nil
	}

	var numeric []string
	for _, spec := range def.FieldSpecs {
		if spec.Type == FieldInteger || spec.Type == FieldFloat {
			numeric = append(numeric, spec.Name)
		}
	}

	result := make(Aggregations, len(numeric))
	for _, col := range numeric {
		var sum, lo, hi float64
		var count int64

		ds.Each(table, func(_ int, row Row) bool {
			f, ok := row.Get(col).Number()
			if !ok || math.IsInf(f, 0) {
				return true
			}
			if count == 0 || f < lo {
				lo = f
			}
			if count == 0 || f > hi {
				hi = f
			}
			sum += f
			count++
			return true
		})

		agg := &ColumnAggregation{Column: col, Count: count}
		if count > 0 {
			avg := sum / float64(count)
			agg.Sum, agg.Avg, agg.Min, agg.Max = &sum, &avg, &lo, &hi
		}
		result[col] = agg
	}
	return result, nil
}

// CountBy tallies the values of one column, for categorical charts.
// Null counts as "NULL"; other values use Value.String. Buckets are ordered
// by descending count, then by value.
func CountBy(ds *Dataset, table, column string) ([]CategoryCount, error) {
	if !ds.Has(table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if !hasColumn(ColumnsFor(table), column) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}

	counts := make(map[string]int)
	ds.Each(table, func(_ int, row Row) bool {
		counts[row.Get(column).String()]++
		return true
	})

	out := make([]CategoryCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

func hasColumn(columns []string, target string) bool {
	for _, c := range columns {
		if c == target {
			return true
		}
	}
	return false
}
