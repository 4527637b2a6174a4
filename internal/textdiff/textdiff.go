// Package textdiff computes a side-by-side line diff of two string
// sequences, built on the sergi/go-diff engine. It backs the executive- and
// case-control sections of the report, where ordering matters and a plain
// sequence diff is the right tool.
package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RowKind classifies one row of the side-by-side table.
type RowKind int

const (
	RowContext RowKind = iota // same line on both sides
	RowChanged                // differing lines paired in lockstep
	RowRemoved                // left side only
	RowAdded                  // right side only
	RowSeparator              // gap marker between context windows
)

// Row is one rendered row. Left and Right are empty where the side has no
// line (additions, removals, separators).
type Row struct {
	Left  string
	Right string
	Kind  RowKind
}

// Table diffs two line sequences into side-by-side rows. context selects the
// display window: nil shows every row, n shows n context lines around each
// run of changes with separator rows in the gaps.
func Table(left, right []string, context *int) []Row {
	rows := pair(lineOps(left, right))
	if context == nil {
		return rows
	}
	return window(rows, *context)
}

// op is a single-line edit operation.
type op struct {
	typ  diffmatchpatch.Operation
	text string
}

// lineOps runs the diff at line granularity. The text is reduced to one rune
// per line first so the engine never splits within a line.
func lineOps(left, right []string) []op {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(left), joinLines(right))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var ops []op
	for _, d := range diffs {
		for _, line := range strings.Split(d.Text, "\n") {
			ops = append(ops, op{typ: d.Type, text: line})
		}
		// Split always yields a trailing empty element for the final
		// newline; drop it.
		if n := len(ops); n > 0 {
			ops = ops[:n-1]
		}
	}
	return ops
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// pair converts edit operations to rows, pairing each run of removals with
// the run of additions that follows it so replaced lines render as changed
// rows rather than an unrelated delete and insert.
func pair(ops []op) []Row {
	var rows []Row
	var removed []string

	flush := func(added []string) {
		n := len(removed)
		if len(added) > n {
			n = len(added)
		}
		for i := 0; i < n; i++ {
			switch {
			case i < len(removed) && i < len(added):
				rows = append(rows, Row{Left: removed[i], Right: added[i], Kind: RowChanged})
			case i < len(removed):
				rows = append(rows, Row{Left: removed[i], Kind: RowRemoved})
			default:
				rows = append(rows, Row{Right: added[i], Kind: RowAdded})
			}
		}
		removed = nil
	}

	for i := 0; i < len(ops); i++ {
		switch ops[i].typ {
		case diffmatchpatch.DiffEqual:
			flush(nil)
			rows = append(rows, Row{Left: ops[i].text, Right: ops[i].text, Kind: RowContext})
		case diffmatchpatch.DiffDelete:
			removed = append(removed, ops[i].text)
		case diffmatchpatch.DiffInsert:
			var added []string
			for ; i < len(ops) && ops[i].typ == diffmatchpatch.DiffInsert; i++ {
				added = append(added, ops[i].text)
			}
			i--
			flush(added)
		}
	}
	flush(nil)
	return rows
}

// window trims context rows down to n lines around each change, inserting a
// separator row wherever rows were elided.
func window(rows []Row, n int) []Row {
	keep := make([]bool, len(rows))
	for i, r := range rows {
		if r.Kind == RowContext {
			continue
		}
		lo := i - n
		if lo < 0 {
			lo = 0
		}
		hi := i + n
		if hi > len(rows)-1 {
			hi = len(rows) - 1
		}
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	var out []Row
	skipping := false
	for i, r := range rows {
		if !keep[i] {
			skipping = true
			continue
		}
		if skipping && len(out) > 0 {
			out = append(out, Row{Kind: RowSeparator})
		}
		skipping = false
		out = append(out, r)
	}
	return out
}
