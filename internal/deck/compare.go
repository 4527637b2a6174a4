package deck

import (
	"sort"
	"strings"
)

// Result holds the four bulk-data diff sequences. Changed1[i] and Changed2[i]
// always describe the same canonical key; all four slices are ordered by
// ascending key so output is deterministic.
type Result struct {
	Changed1 []string
	Changed2 []string
	Only1    []string
	Only2    []string
}

// Compare classifies the records of two tables as changed, left-only or
// right-only. Records present in both are compared after flattening their
// continuation structure, so two physically different line splittings of the
// same logical record never count as a change.
func Compare(t1, t2 *Table) Result {
	var res Result
	for _, k := range sortedKeys(t1.Records) {
		text1 := t1.Records[k]
		text2, ok := t2.Records[k]
		if !ok {
			res.Only1 = append(res.Only1, text1)
			continue
		}
		if flatten(text1, FieldWidth) != flatten(text2, FieldWidth) {
			res.Changed1 = append(res.Changed1, text1)
			res.Changed2 = append(res.Changed2, text2)
		}
	}
	for _, k := range sortedKeys(t2.Records) {
		if _, ok := t1.Records[k]; !ok {
			res.Only2 = append(res.Only2, t2.Records[k])
		}
	}
	return res
}

// flatten concatenates all continuation lines of a record into one logical
// row, dropping each continuation line's name column.
func flatten(rec string, width int) string {
	if !strings.Contains(rec, "\n") {
		return rec
	}
	lines := strings.Split(rec, "\n")
	var b strings.Builder
	b.WriteString(lines[0])
	for _, l := range lines[1:] {
		if len(l) > width {
			b.WriteString(l[width:])
		}
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
