package deck

import "strings"

// dataWidth is the extent of the data region on a fixed-field line. Columns
// past it hold the continuation index and are ignored.
const dataWidth = 72

// ParsedLine is one physical line split into a record name, its field values
// in column order, and the continuation flag. The name is empty or starts
// with "+" exactly when Continuation is true.
type ParsedLine struct {
	Name         string
	Fields       []FieldValue
	Continuation bool
	Wide         bool
}

// ParseLine dispatches on the presence of a comma: free-field if the line
// contains one, fixed-field otherwise. The decision is per line; a deck may
// mix both formats.
func ParseLine(line string) (ParsedLine, error) {
	if strings.Contains(line, ",") {
		return ParseFreeLine(line)
	}
	return ParseFixedLine(line)
}

// ParseFixedLine splits a fixed-field line. The record name occupies the
// first 8 columns; a "*" there marks a wide record with 16-character fields
// and is stripped from the name. A "$" comment truncates the line, which is
// then padded to the 72-column data region and sliced into field-width
// chunks starting at column 9.
func ParseFixedLine(line string) (ParsedLine, error) {
	name := line
	if len(name) > FieldWidth {
		name = name[:FieldWidth]
	}
	fieldWidth := FieldWidth
	wide := false
	if i := strings.IndexByte(name, '*'); i >= 0 {
		fieldWidth = 2 * FieldWidth
		wide = true
		name = name[:i]
	}
	name = strings.TrimSpace(name)

	if i := strings.IndexByte(line, '$'); i >= 0 {
		line = line[:i]
	}
	if len(line) < dataWidth {
		line += strings.Repeat(" ", dataWidth-len(line))
	}

	var fields []FieldValue
	for i := FieldWidth; i < dataWidth; i += fieldWidth {
		f, err := ParseField(line[i : i+fieldWidth])
		if err != nil {
			return ParsedLine{}, err
		}
		fields = append(fields, f)
	}
	return ParsedLine{
		Name:         name,
		Fields:       fields,
		Continuation: continuationName(name),
		Wide:         wide,
	}, nil
}

// ParseFreeLine splits a comma-delimited line. The first token is the record
// name (with an optional trailing wide marker); the rest are parsed
// positionally.
func ParseFreeLine(line string) (ParsedLine, error) {
	parts := strings.Split(line, ",")
	name := parts[0]
	wide := false
	if i := strings.IndexByte(name, '*'); i >= 0 {
		wide = true
		name = name[:i]
	}
	name = strings.TrimSpace(name)

	fields := make([]FieldValue, 0, len(parts)-1)
	for _, p := range parts[1:] {
		f, err := ParseField(p)
		if err != nil {
			return ParsedLine{}, err
		}
		fields = append(fields, f)
	}
	return ParsedLine{
		Name:         name,
		Fields:       fields,
		Continuation: continuationName(name),
		Wide:         wide,
	}, nil
}

func continuationName(name string) bool {
	return name == "" || strings.Contains(name, "+")
}

// lineContinues reports whether a raw line is a continuation line, looking at
// the name column only. Used when full parsing of the line has failed.
func lineContinues(line string) bool {
	var name string
	if i := strings.IndexByte(line, ','); i >= 0 {
		name = line[:i]
	} else if len(line) > FieldWidth {
		name = line[:FieldWidth]
	} else {
		name = line
	}
	if i := strings.IndexByte(name, '*'); i >= 0 {
		name = name[:i]
	}
	return continuationName(strings.TrimSpace(name))
}
