// Package deck implements the NASTRAN bulk-data record model: field typing,
// fixed- and free-field line parsing, INCLUDE resolution, continuation
// reassembly into canonical records, and the record-level diff.
package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind discriminates the three field value types the format knows about.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
)

// FieldValue is a single bulk-data field: an integer, a real, or raw text.
// Exactly one of Int, Real, Text is meaningful, selected by Kind.
type FieldValue struct {
	Kind Kind
	Int  int64
	Real float64
	Text string
}

// IntField returns an integer FieldValue.
func IntField(v int64) FieldValue { return FieldValue{Kind: KindInteger, Int: v} }

// RealField returns a real FieldValue.
func RealField(v float64) FieldValue { return FieldValue{Kind: KindReal, Real: v} }

// TextField returns a text FieldValue.
func TextField(s string) FieldValue { return FieldValue{Kind: KindText, Text: s} }

// compressedExponent matches the shorthand exponent notation where the letter
// is omitted, e.g. ".70+1" meaning ".70E+1". The sign must directly follow a
// digit or decimal point, so a leading sign or an explicit E is left alone.
var compressedExponent = regexp.MustCompile(`([.0-9])([-+])([0-9])`)

// ParseField classifies one trimmed column of text. A field starting with a
// sign, digit or decimal point is numeric; a numeric field containing "." is
// real (reals carry a mandatory decimal point), otherwise integer. Everything
// else is text. Real parsing accepts "D" in place of "E" and the compressed
// exponent shorthand. Numeric-looking text that fails strict conversion
// returns ErrMalformedField rather than degrading to text.
func ParseField(raw string) (FieldValue, error) {
	field := strings.TrimSpace(raw)
	if field == "" || !numericStart(field[0]) {
		return TextField(field), nil
	}
	if strings.Contains(field, ".") {
		s := strings.ReplaceAll(field, "D", "E")
		s = compressedExponent.ReplaceAllString(s, "${1}E${2}${3}")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return FieldValue{}, fmt.Errorf("%w: %q", ErrMalformedField, field)
		}
		return RealField(v), nil
	}
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return FieldValue{}, fmt.Errorf("%w: %q", ErrMalformedField, field)
	}
	return IntField(v), nil
}

func numericStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}
