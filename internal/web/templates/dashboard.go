// Package templates renders the dashboard HTML.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pimpoyo/internal/core"
)

// DashboardView is the data behind the dashboard page.
type DashboardView struct {
	Groups []string
	Tables map[string][]core.TableInfo
	Run    *core.ParseRun // nil until a dump has been parsed
}

// Dashboard renders the landing page: the last parse run and the table
// registry grouped for navigation.
func Dashboard(v DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<title>Pimpoyo dump explorer</title></head><body><main>`)
		b.WriteString(`<h1>Pimpoyo dump explorer</h1>`)

		writeRun(&b, v.Run)

		for _, group := range v.Groups {
			fmt.Fprintf(&b, `<section><h2>%s</h2><table><thead><tr><th>Table</th><th>Columns</th><th>Rows</th></tr></thead><tbody>`,
				templ.EscapeString(group))
			for _, t := range v.Tables[group] {
				rows := "-"
				if v.Run != nil {
					rows = fmt.Sprint(v.Run.Stats.RowsByTable[t.Key])
				}
				fmt.Fprintf(&b, `<tr><td><a href="/api/dataset/%s">%s</a></td><td>%d</td><td>%s</td></tr>`,
					templ.EscapeString(t.Key), templ.EscapeString(t.Label), len(t.Columns), rows)
			}
			b.WriteString(`</tbody></table></section>`)
		}

		b.WriteString(`</main></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeRun(b *strings.Builder, run *core.ParseRun) {
	if run == nil {
		b.WriteString(`<p class="empty">No dump loaded. POST one to /api/parse.</p>`)
		return
	}
	s := run.Stats
	fmt.Fprintf(b, `<section class="run"><h2>Last parse</h2><dl>`+
		`<dt>Source</dt><dd>%s</dd>`+
		`<dt>Parsed</dt><dd>%s (%s)</dd>`+
		`<dt>Rows</dt><dd>%d in %d blocks</dd>`+
		`<dt>Lines</dt><dd>%d (%d skipped, %d ignored)</dd>`+
		`<dt>Degraded values</dt><dd>%d NaN, %d JSON fallbacks</dd>`+
		`</dl>`,
		templ.EscapeString(run.Source),
		run.StartedAt.Format("2006-01-02 15:04:05"), run.Duration,
		s.DataRows, s.Blocks,
		s.Lines, s.SkippedLines, s.IgnoredLines,
		s.NaNFields, s.JSONFallbacks,
	)
	if s.Unterminated != "" {
		fmt.Fprintf(b, `<p class="warning">Dump ended inside the %s block.</p>`, templ.EscapeString(s.Unterminated))
	}
	if len(s.UnknownTables) > 0 {
		fmt.Fprintf(b, `<p class="warning">Tables without a schema: %s</p>`,
			templ.EscapeString(strings.Join(s.UnknownTables, ", ")))
	}
	b.WriteString(`</section>`)
}

// ErrorAlert renders an error message fragment.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert" role="alert"><p>%s</p><p>%s</p><small>Code: %s</small></div>`,
			templ.EscapeString(message), templ.EscapeString(action), templ.EscapeString(code))
		return err
	})
}
