package export

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/courtside/rotations/internal/court"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableResolver struct {
	table     *court.Table
	overrides map[court.PositionKey]court.PositionSet
	fail      map[court.PositionKey]error
}

func (r tableResolver) Resolve(rot court.Rotation, mode court.Mode) (court.PositionSet, error) {
	k := court.Key(rot, mode)
	if err := r.fail[k]; err != nil {
		return r.table.Get(k), err
	}
	if set, ok := r.overrides[k]; ok {
		return set, nil
	}
	return r.table.Get(k), nil
}

func TestBuild_AllKeys(t *testing.T) {
	doc, err := Build(tableResolver{table: court.DefaultTable()})
	require.NoError(t, err)
	assert.Equal(t, 24, doc.Len())
	for _, k := range court.Keys() {
		assert.Equal(t, court.DefaultTable().Get(k), doc[k.Rotation][k.Mode], k.String())
	}
}

func TestBuild_OverridesShadowBase(t *testing.T) {
	tbl := court.DefaultTable()
	k := court.Key(court.L5, court.ModeService)
	moved := tbl.Get(k).With(court.RoleMB2, court.Coordinate{X: 1.5, Y: 2.25})

	doc, err := Build(tableResolver{table: tbl, overrides: map[court.PositionKey]court.PositionSet{k: moved}})
	require.NoError(t, err)
	assert.Equal(t, moved, doc[court.L5][court.ModeService])
	assert.Equal(t, tbl.Get(court.Key(court.L5, court.ModeBase)), doc[court.L5][court.ModeBase])
}

func TestBuild_CollectsStoreErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	doc, err := Build(tableResolver{table: court.DefaultTable(), fail: map[court.PositionKey]error{
		court.Key(court.L1, court.ModeBase):  errA,
		court.Key(court.L6, court.ModeActual): errB,
	}})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 24, doc.Len())
}

func TestJSON_OrderedAndIndented(t *testing.T) {
	doc, err := Build(tableResolver{table: court.DefaultTable()})
	require.NoError(t, err)

	s, err := doc.JSON()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s, "{\n  \"L1\": {\n    \"actual\": {\n      \"RS\": {\n        \"x\": "), s[:80])

	pos := func(sub string) int {
		i := strings.Index(s, sub)
		require.GreaterOrEqual(t, i, 0, sub)
		return i
	}
	for i := 1; i < len(court.Rotations); i++ {
		assert.Less(t, pos(`"`+string(court.Rotations[i-1])+`": {`), pos(`"`+string(court.Rotations[i])+`": {`))
	}
	l1 := s[:pos(`"L2": {`)]
	last := -1
	for _, m := range court.Modes {
		i := strings.Index(l1, `"`+string(m)+`": {`)
		assert.Greater(t, i, last, m)
		last = i
	}
	actual := l1[:strings.Index(l1, `"service": {`)]
	last = -1
	for _, r := range court.Roles {
		i := strings.Index(actual, `"`+string(r)+`": {`)
		assert.Greater(t, i, last, r)
		last = i
	}

	var decoded map[string]map[string]map[string]court.Coordinate
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Len(t, decoded, 6)
	assert.Equal(t, court.DefaultTable().Get(court.Key(court.L1, court.ModeActual))[court.RoleS], decoded["L1"]["actual"]["S"])
}

func TestWriteFile(t *testing.T) {
	doc, err := Build(tableResolver{table: court.DefaultTable()})
	require.NoError(t, err)
	want, err := doc.JSON()
	require.NoError(t, err)

	dir := t.TempDir()

	plain := filepath.Join(dir, "positions.json")
	require.NoError(t, WriteFile(plain, doc))
	b, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", string(b))

	zipped := filepath.Join(dir, "positions.json.gz")
	require.NoError(t, WriteFile(zipped, doc))
	f, err := os.Open(zipped)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	b, err = io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", string(b))

	assert.Error(t, WriteFile(filepath.Join(dir, "missing", "x.json"), doc))
}
