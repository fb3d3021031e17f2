// Package sqlite exports datasets into a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/pimpoyo/internal/core"
	"github.com/JonMunkholm/pimpoyo/internal/export"
)

// Exporter writes every registered table into one SQLite database file.
// Existing tables are dropped and recreated, all within one transaction.
type Exporter struct {
	path string
}

// New creates an exporter for the database at path.
func New(path string) *Exporter {
	return &Exporter{path: path}
}

// Name implements export.Exporter.
func (e *Exporter) Name() string { return "sqlite" }

// Path returns the database file path.
func (e *Exporter) Path() string { return e.path }

// Export implements export.Exporter.
func (e *Exporter) Export(ctx context.Context, ds *core.Dataset) (export.Result, error) {
	start := time.Now()
	defs, skipped := export.Plan(ds)
	result := export.Result{Target: e.Name(), Skipped: skipped}

	db, err := sql.Open("sqlite", e.path)
	if err != nil {
		return result, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return result, fmt.Errorf("ping sqlite: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, def := range defs {
		n, err := writeTable(ctx, tx, ds, def)
		if err != nil {
			return result, fmt.Errorf("export %s: %w", def.Info.Key, err)
		}
		result.Tables = append(result.Tables, export.TableResult{Table: def.Info.Key, Rows: n})
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}
	result.Duration = time.Since(start)

	slog.Info("dataset exported",
		"target", e.Name(),
		"path", e.path,
		"tables", len(result.Tables),
		"rows", result.TotalRows(),
		"duration", result.Duration,
	)
	return result, nil
}

func writeTable(ctx context.Context, tx *sql.Tx, ds *core.Dataset, def core.TableDefinition) (int64, error) {
	table := export.QuoteIdent(def.Info.Key)

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, export.CreateTableSQL(export.SQLite, table, def)); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, InsertSQL(table, export.Columns(def)))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var n int64
	var rowErr error
	ds.Each(def.Info.Key, func(i int, row core.Row) bool {
		vals, err := export.RowValues(export.SQLite, def, row)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		if _, err := stmt.ExecContext(ctx, vals...); err != nil {
			rowErr = fmt.Errorf("insert row %d: %w", i, err)
			return false
		}
		n++
		return true
	})
	return n, rowErr
}

// InsertSQL builds a positional INSERT for the quoted table.
func InsertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = export.QuoteIdent(c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
}
