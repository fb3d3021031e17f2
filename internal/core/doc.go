// Package core turns Pimpoyo PostgreSQL dumps into typed, in-memory datasets.
//
// This package holds all domain logic, independent of any UI or transport
// layer. The web server, the CLI and the exporters all go through it.
//
// # Architecture
//
//   - Table registry: each table's ordered column list, registered at init
//     time from the tables subpackage via [Register].
//   - Coercion: a per-column rule table ([ColumnType]) converts raw COPY
//     tokens into tagged [Value]s. Coercion never fails; bad numbers become
//     the NaN marker.
//   - Scanner: a two-state line machine ([Scanner]) that finds
//     "COPY <schema>.<table>" blocks and their `\.` terminators.
//   - Assembler: zips tokens with the table schema, buckets rows per table
//     and applies post-sorting ([Assembler.Finalize]).
//   - Service: owns the current [Dataset], bounds concurrent parses with
//     a [ParseLimiter] and records a history of [ParseRun]s.
//
// # Parsing
//
// [Parse] is total: any text yields a Dataset. Malformed regions degrade
// into skipped lines, NaN fields or string fallbacks, all counted in
// [ParseStats]:
//
//	ds := core.Parse(dump)
//	for _, row := range ds.Rows("users") {
//	    fmt.Println(row.Get("nickname"))
//	}
//
// [ParseReader] adds input normalization (BOM, Latin-1, invalid UTF-8, size
// limit) in front of the same parse.
//
// # Error Handling
//
// Errors exist only around the parse (I/O, limits, lookups). They are mapped
// to user-facing messages with codes by [MapError]:
//
//   - DUMP001-DUMP004: dump size, empty input, encoding, nothing loaded
//   - FILE001-FILE003: missing or unreadable files
//   - UPL001-UPL003: busy, cancelled, timed out
//   - TBL001-TBL002: unknown table or column
//   - EXP001-EXP004: database export failures
package core
