package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const deck1 = `SOL 101
CEND
LOAD = 1
BEGIN BULK
GRID    1               0.0     0.0     0.0
GRID    2               1.0     0.0     0.0
INCLUDE 'common.dat'
ENDDATA
`

const deck2 = `SOL 103
CEND
LOAD = 2
BEGIN BULK
GRID    1               0.0     0.0     0.0
GRID    2               1.5     0.0     0.0
GRID    9               9.0     0.0     0.0
INCLUDE 'common.dat'
ENDDATA
`

const commonBulk = `SPC     101106  880000430       0.0
`

func TestDiffDecks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.dat", commonBulk)
	p1 := writeFile(t, dir, "a.bdf", deck1)
	p2 := writeFile(t, dir, "b.bdf", deck2)

	d, err := DiffDecks(p1, p2, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"SOL 101"}, d.Exec1)
	assert.Equal(t, []string{"SOL 103"}, d.Exec2)
	assert.Equal(t, []string{"LOAD = 1"}, d.Case1)
	assert.Equal(t, []string{"LOAD = 2"}, d.Case2)

	require.Len(t, d.Bulk.Changed1, 1)
	assert.Contains(t, d.Bulk.Changed1[0], "GRID    2")
	assert.Contains(t, d.Bulk.Changed2[0], "1.5")
	assert.Empty(t, d.Bulk.Only1)
	require.Len(t, d.Bulk.Only2, 1)
	assert.Contains(t, d.Bulk.Only2[0], "GRID    9")
	assert.Empty(t, d.Diags)
}

func TestDiffDecks_MissingDeck(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "a.bdf", deck1)
	writeFile(t, dir, "common.dat", commonBulk)

	_, err := DiffDecks(p1, dir+"/absent.bdf", nil, nil)
	assert.ErrorIs(t, err, ErrIncludeNotFound)
}

func TestDiffDecks_DiagnosticsSurface(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "a.bdf",
		"CEND\nBEGIN BULK\nGRID    1\nGRID    1\nENDDATA\n")
	p2 := writeFile(t, dir, "b.bdf",
		"CEND\nBEGIN BULK\nGRID    1\nENDDATA\n")

	d, err := DiffDecks(p1, p2, nil, nil)
	require.NoError(t, err)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, DiagDuplicateKey, d.Diags[0].Kind)
	assert.Equal(t, p1, d.Diags[0].File)
}
