package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pimpoyo/internal/core"
)

func newTablesCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the known dump tables",
		Long:  `List every registered table with its group, label and positional columns.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			infos := make([]core.TableInfo, 0, core.TableCount())
			for _, def := range core.All() {
				infos = append(infos, def.Info)
			}
			if format == formatJSON {
				return renderJSON(cmd.OutOrStdout(), infos)
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Group", "Table", "Label", "Columns"})
			for _, info := range infos {
				t.AppendRow(table.Row{info.Group, info.Key, info.Label, len(info.Columns)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	return cmd
}

func newSummaryCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary <dump>",
		Short: "Summarize a dump",
		Long: `Parse a dump and print rows per table plus the parse counters: skipped and
ignored lines, unparseable numbers, invalid JSON and unterminated blocks.`,
		Example: `  pimpoyo summary backup.sql
  pg_dump -n pimpoyo mydb | pimpoyo summary -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ds, err := opts.parseDump(cmd, args[0])
			if err != nil {
				return err
			}
			stats := ds.Stats()
			if format == formatJSON {
				return renderJSON(cmd.OutOrStdout(), map[string]any{
					"fingerprint": ds.Fingerprint(),
					"stats":       stats,
				})
			}

			w := cmd.OutOrStdout()
			t := newTable(w)
			t.AppendHeader(table.Row{"Table", "Rows"})
			for _, name := range ds.Tables() {
				t.AppendRow(table.Row{name, ds.Len(name)})
			}
			t.AppendFooter(table.Row{"Total", stats.DataRows})
			t.Render()

			_, _ = fmt.Fprintf(w, "lines: %d, blocks: %d, skipped: %d, ignored: %d, inserts: %d\n",
				stats.Lines, stats.Blocks, stats.SkippedLines, stats.IgnoredLines, stats.InsertStatements)
			_, _ = fmt.Fprintf(w, "NaN fields: %d, JSON fallbacks: %d\n", stats.NaNFields, stats.JSONFallbacks)
			if len(stats.UnknownTables) > 0 {
				_, _ = fmt.Fprintf(w, "tables without a schema: %s\n", strings.Join(stats.UnknownTables, ", "))
			}
			if stats.Unterminated != "" {
				_, _ = fmt.Fprintf(w, "warning: dump ended inside the %s block\n", stats.Unterminated)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	return cmd
}

func newRowsCommand(opts *options) *cobra.Command {
	var (
		format string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "rows <dump> <table>",
		Short: "Print the rows of one table",
		Long:  `Parse a dump and print the typed rows of a table, in dataset order.`,
		Example: `  pimpoyo rows backup.sql users --limit 20
  pimpoyo rows backup.sql sessions --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ds, err := opts.parseDump(cmd, args[0])
			if err != nil {
				return err
			}
			name := args[1]
			if !ds.Has(name) {
				return fmt.Errorf("%w: %s", core.ErrUnknownTable, name)
			}

			var rows []core.Row
			ds.Each(name, func(i int, row core.Row) bool {
				if i < offset {
					return true
				}
				if limit >= 0 && len(rows) >= limit {
					return false
				}
				rows = append(rows, row)
				return true
			})

			if format == formatJSON {
				if rows == nil {
					rows = []core.Row{}
				}
				return renderJSON(cmd.OutOrStdout(), rows)
			}
			return renderRows(cmd, core.ColumnsFor(name), rows, ds.Len(name))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum rows to print, -1 for all")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func renderRows(cmd *cobra.Command, cols []string, rows []core.Row, total int) error {
	w := cmd.OutOrStdout()
	if len(cols) == 0 {
		_, _ = fmt.Fprintf(w, "(%d rows, table has no registered columns)\n", total)
		return nil
	}

	t := newTable(w)
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i, c := range cols {
			r[i] = row.Get(c).String()
		}
		t.AppendRow(r)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d of %d rows)\n", len(rows), total)
	return nil
}
