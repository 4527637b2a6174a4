// Package report renders a deck comparison as a standalone HTML page: a
// side-by-side diff of the executive- and case-control sections and a table
// of changed, removed and added bulk-data records.
package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"deckdiff/internal/deck"
	"deckdiff/internal/textdiff"
)

// Options controls presentation only; nothing here affects what was
// computed.
type Options struct {
	// Separators draws a rule between bulk-data field columns.
	Separators bool
	// Context limits the section diffs to N lines around each change;
	// nil shows the full sections.
	Context *int
}

type pageData struct {
	From     string
	To       string
	ExecRows []template.HTML
	CaseRows []template.HTML
	BulkRows []template.HTML
	Diags    []string
}

// Write renders the full report for d to w.
func Write(w io.Writer, d *deck.DeckDiff, opts Options) error {
	data := pageData{
		From:     d.Path1,
		To:       d.Path2,
		ExecRows: sectionRows(textdiff.Table(d.Exec1, d.Exec2, opts.Context)),
		CaseRows: sectionRows(textdiff.Table(d.Case1, d.Case2, opts.Context)),
		BulkRows: bulkRows(d.Bulk, opts.Separators),
	}
	for _, diag := range d.Diags {
		data.Diags = append(data.Diags, diag.String())
	}
	return page.Execute(w, data)
}

const rowFmt = `<tr><td nowrap="nowrap">%s</td><td nowrap="nowrap">%s</td></tr>`

func sectionRows(rows []textdiff.Row) []template.HTML {
	out := make([]template.HTML, 0, len(rows))
	for _, r := range rows {
		var left, right string
		switch r.Kind {
		case textdiff.RowContext:
			left = escape(r.Left)
			right = escape(r.Right)
		case textdiff.RowChanged:
			left = span("diff_chg", escape(r.Left))
			right = span("diff_chg", escape(r.Right))
		case textdiff.RowRemoved:
			left = span("diff_sub", escape(r.Left))
		case textdiff.RowAdded:
			right = span("diff_add", escape(r.Right))
		case textdiff.RowSeparator:
			out = append(out, template.HTML(`<tr><td class="diff_next" colspan="2">&hellip;</td></tr>`))
			continue
		}
		out = append(out, template.HTML(fmt.Sprintf(rowFmt, left, right)))
	}
	return out
}

func bulkRows(res deck.Result, separators bool) []template.HTML {
	out := make([]template.HTML, 0, len(res.Changed1)+len(res.Only1)+len(res.Only2))
	for i := range res.Changed1 {
		out = append(out, template.HTML(fmt.Sprintf(rowFmt,
			span("diff_chg", recordHTML(res.Changed1[i], separators)),
			span("diff_chg", recordHTML(res.Changed2[i], separators)))))
	}
	for _, rec := range res.Only1 {
		out = append(out, template.HTML(fmt.Sprintf(rowFmt,
			span("diff_sub", recordHTML(rec, separators)), "")))
	}
	for _, rec := range res.Only2 {
		out = append(out, template.HTML(fmt.Sprintf(rowFmt,
			"", span("diff_add", recordHTML(rec, separators)))))
	}
	return out
}

// recordHTML renders one canonical record, one <br />-joined line per
// physical line, optionally boxing each field column.
func recordHTML(rec string, separators bool) string {
	lines := strings.Split(rec, "\n")
	rendered := make([]string, 0, len(lines))
	for _, l := range lines {
		var b strings.Builder
		for i := 0; i < len(l); i += deck.FieldWidth {
			end := i + deck.FieldWidth
			if end > len(l) {
				end = len(l)
			}
			cell := escape(l[i:end])
			if separators {
				cell = span("bde_sep", cell)
			}
			b.WriteString(cell)
		}
		rendered = append(rendered, b.String())
	}
	return strings.Join(rendered, "<br />")
}

func span(class, inner string) string {
	return fmt.Sprintf(`<span class="%s">%s</span>`, class, inner)
}

func escape(s string) string {
	return template.HTMLEscapeString(s)
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>Deck comparison</title>
<style type="text/css">
table.diff {font-family:Courier; border:medium;}
.diff_header {background-color:#e0e0e0}
td.diff_header {text-align:right}
.diff_next {background-color:#c0c0c0; text-align:center}
.diff_add {background-color:#aaffaa; white-space: pre; }
.diff_chg {background-color:#ffff77; white-space: pre; }
.diff_sub {background-color:#ffaaaa; white-space: pre; }
span.bde_sep {border-right: solid #ff0000 1px; white-space: pre; }
</style>
</head>
<body>
<table class="diff" summary="Legend">
  <tr><th colspan="2">Legend</th></tr>
  <tr><td class="diff_add">&nbsp;Added&nbsp;</td></tr>
  <tr><td class="diff_chg">Changed</td></tr>
  <tr><td class="diff_sub">Deleted</td></tr>
</table>
<h2>Executive Control</h2>
<table class="diff" cellspacing="0" cellpadding="0" rules="groups">
  <colgroup></colgroup><colgroup></colgroup>
  <thead><tr><th class="diff_header">{{.From}}</th><th class="diff_header">{{.To}}</th></tr></thead>
  <tbody>
{{range .ExecRows}}    {{.}}
{{end}}  </tbody>
</table>
<h2>Case Control</h2>
<table class="diff" cellspacing="0" cellpadding="0" rules="groups">
  <colgroup></colgroup><colgroup></colgroup>
  <thead><tr><th class="diff_header">{{.From}}</th><th class="diff_header">{{.To}}</th></tr></thead>
  <tbody>
{{range .CaseRows}}    {{.}}
{{end}}  </tbody>
</table>
<h2>Bulk Data</h2>
<p>Bulk data entries may be re-ordered between the two decks; entry
positions within this table carry no meaning.</p>
<table class="diff" cellspacing="0" cellpadding="0" rules="groups">
  <colgroup></colgroup><colgroup></colgroup>
  <thead><tr><th class="diff_header">{{.From}}</th><th class="diff_header">{{.To}}</th></tr></thead>
  <tbody>
{{range .BulkRows}}    {{.}}
{{end}}  </tbody>
</table>
{{if .Diags}}<h2>Diagnostics</h2>
<ul>
{{range .Diags}}  <li>{{.}}</li>
{{end}}</ul>
{{end}}</body>
</html>
`))
