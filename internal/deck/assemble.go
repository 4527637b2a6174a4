package deck

import (
	"fmt"
	"strings"
)

// KeyRules maps a record name to the extra 0-based field indices (beyond the
// first) that take part in its canonical key. Most records are identified by
// name and first field alone; a few need a compound identity because the
// first field is not unique.
type KeyRules map[string][]int

// DefaultKeyRules returns the built-in compound-key table. Callers may copy
// and extend it for record types not covered here.
func DefaultKeyRules() KeyRules {
	return KeyRules{
		"PLOAD4": {1},
		"FORCE":  {1},
		"SPC":    {1},
		"SPC1":   {2},
		"TEMP":   {1},
		"MPC":    {1},
		"DMIG":   {1, 2},
	}
}

// LineSource is a stream of physical lines with position context for
// diagnostics. *Section implements it; tests feed slices through it.
type LineSource interface {
	Scan() bool
	Line() string
	File() string
	LineNum() int
	Err() error
}

// Table maps canonical key to the canonicalized record text of one deck,
// along with the recoverable findings collected while building it.
type Table struct {
	Records map[string]string
	Diags   []Diagnostic
}

// Assemble merges the continuation lines of a bulk-data section into logical
// records keyed by canonical key. Inline comments and blank lines are
// skipped. Continuation lines are appended to the open record as a fresh
// text line with a blank name column. A duplicate key keeps the later record
// and reports a diagnostic; a continuation with no open record, or a line
// with a malformed field, drops that record and reports a diagnostic.
func Assemble(src LineSource, rules KeyRules) (*Table, error) {
	if rules == nil {
		rules = DefaultKeyRules()
	}
	t := &Table{Records: make(map[string]string)}
	key := ""
	open := false
	aborted := false

	for src.Scan() {
		line := src.Line()
		if i := strings.IndexByte(line, '$'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}

		pl, err := ParseLine(line)
		if err != nil {
			if lineContinues(line) && open {
				// A bad continuation poisons the whole record.
				t.diag(DiagMalformedField, src, key, err.Error())
				delete(t.Records, key)
			} else {
				t.diag(DiagMalformedField, src, "", err.Error())
			}
			open = false
			aborted = true
			continue
		}

		if pl.Continuation {
			switch {
			case open:
				t.Records[key] += "\n" + FormatRecord("", pl.Fields)
			case aborted:
				// Trailing lines of a record already dropped.
			default:
				t.diag(DiagUnbalancedContinuation, src, "", "")
			}
			continue
		}

		if len(pl.Fields) == 0 {
			t.diag(DiagMalformedField, src, "", fmt.Sprintf("record %q has no fields", pl.Name))
			open = false
			aborted = true
			continue
		}

		key = canonicalKey(pl.Name, pl.Fields, rules)
		if _, dup := t.Records[key]; dup {
			t.diag(DiagDuplicateKey, src, key,
				"earlier record overwritten; duplicate input or a key-derivation gap")
		}
		t.Records[key] = FormatRecord(pl.Name, pl.Fields)
		open = true
		aborted = false
	}
	return t, src.Err()
}

func (t *Table) diag(kind DiagKind, src LineSource, key, detail string) {
	t.Diags = append(t.Diags, Diagnostic{
		Kind:   kind,
		File:   src.File(),
		Line:   src.LineNum(),
		Key:    key,
		Detail: detail,
	})
}

// canonicalKey derives the identity under which a record is matched across
// decks: the name, the first field, and any extra fields the rule table
// designates for this record type.
func canonicalKey(name string, fields []FieldValue, rules KeyRules) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(keyField(fields[0]))
	for _, i := range rules[name] {
		if i < len(fields) {
			b.WriteString(keyField(fields[i]))
		}
	}
	return b.String()
}

// keyField renders a field for key derivation: numbers right-justified, text
// left-justified, both at the standard field width. Distinct from FormatField
// so keys stay stable even if the display formatter evolves.
func keyField(v FieldValue) string {
	s := v.plain()
	if v.Kind == KindText {
		return FormatField(v, FieldWidth)
	}
	if len(s) >= FieldWidth {
		return s
	}
	return strings.Repeat(" ", FieldWidth-len(s)) + s
}
