package deck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource feeds a fixed list of lines through the LineSource interface.
type sliceSource struct {
	lines []string
	i     int
}

func (s *sliceSource) Scan() bool {
	if s.i < len(s.lines) {
		s.i++
		return true
	}
	return false
}

func (s *sliceSource) Line() string { return s.lines[s.i-1] }
func (s *sliceSource) File() string { return "test.bdf" }
func (s *sliceSource) LineNum() int { return s.i }
func (s *sliceSource) Err() error   { return nil }

func assemble(t *testing.T, lines ...string) *Table {
	t.Helper()
	tbl, err := Assemble(&sliceSource{lines: lines}, nil)
	require.NoError(t, err)
	return tbl
}

// rstrip trims trailing whitespace per line so expectations stay readable.
func rstrip(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

func TestAssemble_SingleLine(t *testing.T) {
	tbl := assemble(t, "SPC     101106  880000430       0.0     ")

	require.Len(t, tbl.Records, 1)
	assert.Empty(t, tbl.Diags)
	rec, ok := tbl.Records["SPC  10110688000043"]
	require.True(t, ok, "keys: %v", tbl.Records)
	assert.Equal(t, "SPC     101106  880000430       0.0", rstrip(rec))
}

func TestAssemble_Continuation(t *testing.T) {
	tbl := assemble(t,
		"MPC     101106  228711  1       1.      814319  1       -1.     ",
		"                880000440       1.      880000450       -1.")

	rec, ok := tbl.Records["MPC  101106  228711"]
	require.True(t, ok, "keys: %v", tbl.Records)
	want := "MPC     101106  228711  1       1.0     814319  1       -1.0\n" +
		"                880000440       1.0     880000450       -1.0"
	assert.Equal(t, want, rstrip(rec))
}

func TestAssemble_WideContinuation(t *testing.T) {
	tbl := assemble(t,
		"GRID*                  2                             1.0            -2.0+",
		"*                    3.0                             136")

	rec, ok := tbl.Records["GRID       2"]
	require.True(t, ok, "keys: %v", tbl.Records)
	want := "GRID    2               1.0     -2.0\n" +
		"        3.0             136"
	assert.Equal(t, want, rstrip(rec))
}

func TestAssemble_PlusContinuation(t *testing.T) {
	tbl := assemble(t,
		"RBE3     8000175         1050116  123456      1.     123 1000941 1000935+       ",
		"+        1000942 1000936")

	rec, ok := tbl.Records["RBE3 8000175"]
	require.True(t, ok, "keys: %v", tbl.Records)
	want := "RBE3    8000175         1050116 123456  1.0     123     1000941 1000935\n" +
		"        1000942 1000936"
	assert.Equal(t, want, rstrip(rec))
}

func TestAssemble_FreeField(t *testing.T) {
	tbl := assemble(t, "GRID,2,,1.0,-2.0,3.0,,136")

	rec, ok := tbl.Records["GRID       2"]
	require.True(t, ok, "keys: %v", tbl.Records)
	assert.Equal(t, "GRID    2               1.0     -2.0    3.0             136", rstrip(rec))
}

func TestAssemble_CommentsAndBlanks(t *testing.T) {
	tbl := assemble(t,
		"$ a full-line comment",
		"",
		"        ",
		"$ another")

	assert.Empty(t, tbl.Records)
	assert.Empty(t, tbl.Diags)
}

func TestAssemble_InlineComment(t *testing.T) {
	tbl := assemble(t, "GRID    2       $ grid point two")

	_, ok := tbl.Records["GRID       2"]
	assert.True(t, ok, "keys: %v", tbl.Records)
}

func TestAssemble_DuplicateKey(t *testing.T) {
	tbl := assemble(t,
		"GRID    2               1.0     ",
		"GRID    2               5.0     ")

	require.Len(t, tbl.Records, 1)
	require.Len(t, tbl.Diags, 1)
	assert.Equal(t, DiagDuplicateKey, tbl.Diags[0].Kind)
	assert.Equal(t, "GRID       2", tbl.Diags[0].Key)
	assert.Equal(t, "test.bdf", tbl.Diags[0].File)
	assert.Equal(t, 2, tbl.Diags[0].Line)

	// The later record wins.
	assert.Contains(t, tbl.Records["GRID       2"], "5.0")
}

func TestAssemble_UnbalancedContinuation(t *testing.T) {
	tbl := assemble(t, "+       1.0")

	assert.Empty(t, tbl.Records)
	require.Len(t, tbl.Diags, 1)
	assert.Equal(t, DiagUnbalancedContinuation, tbl.Diags[0].Kind)
	assert.Equal(t, 1, tbl.Diags[0].Line)
}

func TestAssemble_MalformedRecordDropped(t *testing.T) {
	tbl := assemble(t,
		"GRID    12a4",
		"GRID    3")

	require.Len(t, tbl.Records, 1)
	_, ok := tbl.Records["GRID       3"]
	assert.True(t, ok, "keys: %v", tbl.Records)
	require.Len(t, tbl.Diags, 1)
	assert.Equal(t, DiagMalformedField, tbl.Diags[0].Kind)
	assert.Equal(t, 1, tbl.Diags[0].Line)
}

// A malformed continuation poisons the record it extends, and any further
// continuation lines of that record are dropped without extra noise.
func TestAssemble_MalformedContinuation(t *testing.T) {
	tbl := assemble(t,
		"MPC     101106  228711  1       1.      814319  1       -1.     ",
		"        12a4",
		"        880000440       1.",
		"GRID    3")

	require.Len(t, tbl.Records, 1)
	_, ok := tbl.Records["GRID       3"]
	assert.True(t, ok, "keys: %v", tbl.Records)
	require.Len(t, tbl.Diags, 1)
	assert.Equal(t, DiagMalformedField, tbl.Diags[0].Kind)
	assert.Equal(t, "MPC  101106  228711", tbl.Diags[0].Key)
}

// The same logical record written as one free-field line or split across a
// continuation assembles under the same canonical key, and the two forms
// compare equal once continuation structure is flattened.
func TestAssemble_KeyStableAcrossSplitting(t *testing.T) {
	single := assemble(t, "GRID,2,,1.0,-2.0,3.0,,136")
	split := assemble(t,
		"GRID,2,,1.0",
		",-2.0,3.0,,136")

	require.Len(t, single.Records, 1)
	require.Len(t, split.Records, 1)

	rec1, ok := single.Records["GRID       2"]
	require.True(t, ok)
	rec2, ok := split.Records["GRID       2"]
	require.True(t, ok)

	assert.NotEqual(t, rec1, rec2, "physical forms should differ")
	assert.Equal(t, flatten(rec1, FieldWidth), flatten(rec2, FieldWidth))

	res := Compare(single, split)
	assert.Empty(t, res.Changed1)
	assert.Empty(t, res.Only1)
	assert.Empty(t, res.Only2)
}

func TestKeyRules_Extendable(t *testing.T) {
	rules := DefaultKeyRules()
	rules["CBUSH"] = []int{1}

	tbl, err := Assemble(&sliceSource{lines: []string{"CBUSH   11      22      "}}, rules)
	require.NoError(t, err)
	_, ok := tbl.Records["CBUSH      11      22"]
	assert.True(t, ok, "keys: %v", tbl.Records)
}
