package deck

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FieldWidth is the standard small-field column width. Wide records use
// double-width fields on input but are always re-rendered at this width.
const FieldWidth = 8

// mantissaDigitE matches the last mantissa digit before the exponent marker;
// collapsing it drops one digit of precision.
var mantissaDigitE = regexp.MustCompile(`[0-9]E`)

// FormatReal renders v into exactly width characters. The result always
// contains a decimal point: per format convention that is what distinguishes
// a real field from an integer one. Values too large or too small for fixed
// notation fall back to scientific notation and shed mantissa digits one at
// a time until the text fits.
func FormatReal(v float64, width int) string {
	txt := ""
	rw := width
	if v < 0 {
		txt = "-"
		rw--
		v = -v
	}

	switch {
	case v >= math.Pow10(rw-5):
		// Too large for fixed notation.
		txt += strconv.FormatFloat(v, 'E', 6, 64)
		if !strings.Contains(txt, ".") {
			txt = strings.Replace(txt, "E", ".E", 1)
		}
		txt = shedPrecision(txt, width)
	case v < 1e-99:
		txt += "0.0"
	case v < math.Pow10(4-rw):
		// Fixed notation would lose all significance.
		txt += strconv.FormatFloat(v, 'E', rw, 64)
		txt = shedPrecision(txt, width)
	default:
		fixed := strconv.FormatFloat(v, 'g', rw-1, 64)
		if !strings.Contains(fixed, ".") {
			fixed += ".0"
		}
		txt += fixed
		if len(txt) > width {
			txt = txt[:width]
		}
	}

	if len(txt) < width {
		txt += strings.Repeat(" ", width-len(txt))
	}
	return txt
}

// shedPrecision drops one mantissa digit per pass until txt fits width.
func shedPrecision(txt string, width int) string {
	for len(txt) > width {
		next := mantissaDigitE.ReplaceAllString(txt, "E")
		if next == txt {
			break
		}
		txt = next
	}
	return txt
}

// FormatField renders any field value into exactly width characters. Reals
// go through FormatReal; integers and text are left-justified, space-padded
// and truncated.
func FormatField(v FieldValue, width int) string {
	if v.Kind == KindReal {
		return FormatReal(v.Real, width)
	}
	s := v.plain()
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// FormatRecord renders a record name and fields into the canonical textual
// form: name left-justified to 8 characters, then each field at the standard
// width. This is the form stored in tables and compared between decks.
func FormatRecord(name string, fields []FieldValue) string {
	var b strings.Builder
	b.WriteString(FormatField(TextField(name), FieldWidth))
	for _, f := range fields {
		b.WriteString(FormatField(f, FieldWidth))
	}
	return b.String()
}

// plain is the undecorated text of a non-real value.
func (v FieldValue) plain() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		s := strconv.FormatFloat(v.Real, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	}
	return v.Text
}
