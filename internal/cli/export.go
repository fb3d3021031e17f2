package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pimpoyo/internal/export"
	"github.com/JonMunkholm/pimpoyo/internal/export/postgres"
	"github.com/JonMunkholm/pimpoyo/internal/export/sqlite"
)

func newExportCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy a parsed dump into a database",
		Long: `Parse a dump and write every registered table into PostgreSQL or SQLite.
Tables without a registered schema are skipped.`,
	}
	cmd.AddCommand(newExportPostgresCommand(opts))
	cmd.AddCommand(newExportSQLiteCommand(opts))
	return cmd
}

func newExportPostgresCommand(opts *options) *cobra.Command {
	var (
		url         string
		schema      string
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "postgres <dump>",
		Short: "Export into PostgreSQL with COPY",
		Example: `  DATABASE_URL=postgres://localhost/analytics pimpoyo export postgres backup.sql
  pimpoyo export postgres backup.sql --url postgres://localhost/analytics --target-schema raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ec := opts.cfg.Export
			if cmd.Flags().Changed("url") {
				ec.DatabaseURL = url
			}
			if cmd.Flags().Changed("target-schema") {
				ec.TargetSchema = schema
			}
			if cmd.Flags().Changed("parallelism") {
				ec.Parallelism = parallelism
			}

			ctx, cancel := exportContext(cmd, opts)
			defer cancel()

			exp, err := postgres.Connect(ctx, postgres.Config{
				URL:         ec.DatabaseURL,
				MaxConns:    int32(max(ec.MaxConns, ec.Parallelism)),
				MinConns:    int32(ec.MinConns),
				Schema:      ec.TargetSchema,
				Parallelism: ec.Parallelism,
			})
			if err != nil {
				return err
			}
			defer exp.Close()

			return runExport(ctx, cmd, opts, exp, args[0])
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "PostgreSQL URL (default: DATABASE_URL)")
	cmd.Flags().StringVar(&schema, "target-schema", "", "schema receiving the tables (default: EXPORT_TARGET_SCHEMA)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "tables copied at once (default: EXPORT_PARALLELISM)")
	return cmd
}

func newExportSQLiteCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "sqlite <dump>",
		Short:   "Export into a SQLite file",
		Example: `  pimpoyo export sqlite backup.sql --out pimpoyo.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfg.Export.SQLitePath
			if out != "" {
				path = out
			}
			ctx, cancel := exportContext(cmd, opts)
			defer cancel()
			return runExport(ctx, cmd, opts, sqlite.New(path), args[0])
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "database file (default: EXPORT_SQLITE_PATH)")
	return cmd
}

func exportContext(cmd *cobra.Command, opts *options) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if t := opts.cfg.Export.Timeout; t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

func runExport(ctx context.Context, cmd *cobra.Command, opts *options, exp export.Exporter, path string) error {
	ds, err := opts.parseDump(cmd, path)
	if err != nil {
		return err
	}

	result, err := exp.Export(ctx, ds)
	if err != nil {
		return fmt.Errorf("export %s: %w", exp.Name(), err)
	}

	w := cmd.OutOrStdout()
	t := newTable(w)
	t.AppendHeader(table.Row{"Table", "Rows"})
	for _, tr := range result.Tables {
		t.AppendRow(table.Row{tr.Table, tr.Rows})
	}
	t.AppendFooter(table.Row{"Total", result.TotalRows()})
	t.Render()
	for _, name := range result.Skipped {
		_, _ = fmt.Fprintf(w, "skipped %s: no registered schema\n", name)
	}
	_, _ = fmt.Fprintf(w, "exported to %s in %s\n", exp.Name(), result.Duration.Round(time.Millisecond))
	return nil
}
