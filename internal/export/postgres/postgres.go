// Package postgres exports datasets into PostgreSQL with COPY FROM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/pimpoyo/internal/core"
	"github.com/JonMunkholm/pimpoyo/internal/export"
)

// ErrNotConfigured is returned when no database URL was provided.
var ErrNotConfigured = errors.New("export not configured: DATABASE_URL is empty")

// Config holds connection and export settings.
type Config struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	Schema      string
	Parallelism int
}

// Exporter copies every registered table into Schema. Each table is replaced
// inside its own transaction (create, truncate, copy), and tables are
// written concurrently up to Parallelism.
type Exporter struct {
	pool        *pgxpool.Pool
	schema      string
	parallelism int
}

// Connect opens a pool from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*Exporter, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return New(pool, cfg.Schema, cfg.Parallelism), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, schema string, parallelism int) *Exporter {
	if schema == "" {
		schema = "public"
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Exporter{pool: pool, schema: schema, parallelism: parallelism}
}

// Name implements export.Exporter.
func (e *Exporter) Name() string { return "postgres" }

// Close releases the pool.
func (e *Exporter) Close() {
	e.pool.Close()
}

// Export implements export.Exporter.
func (e *Exporter) Export(ctx context.Context, ds *core.Dataset) (export.Result, error) {
	start := time.Now()
	defs, skipped := export.Plan(ds)
	result := export.Result{Target: e.Name(), Skipped: skipped}

	if _, err := e.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+export.QuoteIdent(e.schema)); err != nil {
		return result, fmt.Errorf("create schema %s: %w", e.schema, err)
	}

	var mu sync.Mutex
	counts := make(map[string]int64, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for _, def := range defs {
		g.Go(func() error {
			n, err := e.exportTable(gctx, ds, def)
			if err != nil {
				return fmt.Errorf("export %s: %w", def.Info.Key, err)
			}
			mu.Lock()
			counts[def.Info.Key] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, def := range defs {
		result.Tables = append(result.Tables, export.TableResult{Table: def.Info.Key, Rows: counts[def.Info.Key]})
	}
	result.Duration = time.Since(start)

	slog.Info("dataset exported",
		"target", e.Name(),
		"schema", e.schema,
		"tables", len(result.Tables),
		"rows", result.TotalRows(),
		"duration", result.Duration,
	)
	return result, nil
}

func (e *Exporter) exportTable(ctx context.Context, ds *core.Dataset, def core.TableDefinition) (int64, error) {
	rows, err := CopyRows(ds, def)
	if err != nil {
		return 0, err
	}

	ident := pgx.Identifier{e.schema, def.Info.Key}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, export.CreateTableSQL(export.Postgres, ident.Sanitize(), def)); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}
	if _, err := tx.Exec(ctx, "TRUNCATE "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("truncate: %w", err)
	}

	n, err := tx.CopyFrom(ctx, ident, export.Columns(def), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// CopyRows converts a table's rows into COPY input.
func CopyRows(ds *core.Dataset, def core.TableDefinition) ([][]any, error) {
	out := make([][]any, 0, ds.Len(def.Info.Key))
	var convErr error
	ds.Each(def.Info.Key, func(i int, row core.Row) bool {
		vals, err := export.RowValues(export.Postgres, def, row)
		if err != nil {
			convErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		out = append(out, vals)
		return true
	})
	return out, convErr
}
