package court

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_Complete(t *testing.T) {
	tbl := DefaultTable()

	for _, k := range Keys() {
		set := tbl.Get(k)
		assert.Len(t, set, 6, "key %s", k)
		assert.True(t, set.Complete(), "key %s", k)
		for r, c := range set {
			assert.True(t, c.valid(), "%s %s out of range", k, r)
		}
	}
}

func TestDefaultTable_GetReturnsCopy(t *testing.T) {
	tbl := DefaultTable()
	k := Key(L1, ModeActual)

	set := tbl.Get(k)
	set[RoleS] = Coordinate{X: 1, Y: 1}

	assert.Equal(t, Coordinate{X: 80, Y: 78}, tbl.Get(k)[RoleS])
}

func TestTable_GetUnknownKeyPanics(t *testing.T) {
	tbl := DefaultTable()
	assert.Panics(t, func() {
		tbl.Get(Key("L7", ModeActual))
	})
}

func TestDefaultTable_BaseFrontRowHasThreePlayers(t *testing.T) {
	tbl := DefaultTable()
	for _, rot := range Rotations {
		front := 0
		for _, c := range tbl.Get(Key(rot, ModeBase)) {
			if c.InNetHalf() {
				front++
			}
		}
		assert.Equal(t, 3, front, "rotation %s", rot)
	}
}

func TestLoadTable_MissingKey(t *testing.T) {
	doc := `
L1:
  actual:
    RS: {x: 1, y: 1}
    S: {x: 1, y: 1}
    OH1: {x: 1, y: 1}
    OH2: {x: 1, y: 1}
    MB1: {x: 1, y: 1}
    MB2: {x: 1, y: 1}
`
	_, err := LoadTable(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteTable)
	assert.Contains(t, err.Error(), "missing L1-service")
}

func TestLoadTable_MissingRole(t *testing.T) {
	doc := strings.Replace(string(defaultPositions), "    MB2: {x: 20, y: 72}\nL2:", "L2:", 1)

	_, err := LoadTable(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteTable)
	assert.Contains(t, err.Error(), "L1-base missing role MB2")
}

func TestLoadTable_Rejects(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want error
	}{
		{name: "unknown rotation", from: "L6:", to: "L7:", want: ErrUnknownRotation},
		{name: "unknown mode", from: "  base:", to: "  attack:", want: ErrUnknownMode},
		{name: "unknown role", from: "    RS: {x: 20, y: 22}", to: "    L: {x: 20, y: 22}", want: ErrUnknownRole},
		{name: "out of range", from: "{x: 80, y: 97}", to: "{x: 80, y: 101}", want: ErrIncompleteTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(string(defaultPositions), tt.from, tt.to, 1)
			_, err := LoadTable(strings.NewReader(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadTableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "positions.yaml")
	doc := strings.Replace(string(defaultPositions), "S: {x: 80, y: 78}", "S: {x: 81.5, y: 77}", 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	tbl, err := LoadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, Coordinate{X: 81.5, Y: 77}, tbl.Coordinate(Key(L1, ModeActual), RoleS))
}

func TestLoadTableFile_Missing(t *testing.T) {
	_, err := LoadTableFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening position table")
}
