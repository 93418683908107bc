// internal/storage/storage_test.go
package storage_test

import (
	"testing"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/storage"
	"github.com/courtside/rotations/internal/storage/memory"
	sqlitestorage "github.com/courtside/rotations/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend = (*memory.Backend)(nil)
	_ storage.Backend = (*sqlitestorage.Backend)(nil)
)

func backends(t *testing.T) map[string]storage.Backend {
	t.Helper()

	mem := memory.New()
	sq := sqlitestorage.New(zerolog.Nop())

	out := map[string]storage.Backend{"memory": mem, "sqlite": sq}
	for name, b := range out {
		require.NoError(t, b.Init(), name)
		t.Cleanup(func() { _ = b.Close() })
	}
	return out
}

func TestBackends_GetMissing(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			set, ok, err := b.Get(court.Key(court.L1, court.ModeActual))
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, set)
		})
	}
}

func TestBackends_PutGetRoundTrip(t *testing.T) {
	key := court.Key(court.L3, court.ModeReceive)
	set := court.DefaultTable().Get(key).With(court.RoleS, court.Coordinate{X: 42.34, Y: 10})

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Put(key, set))

			got, ok, err := b.Get(key)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, set.Equal(got), "got %v", got)

			other, ok, err := b.Get(court.Key(court.L3, court.ModeBase))
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, other)
		})
	}
}

func TestBackends_PutReplaces(t *testing.T) {
	key := court.Key(court.L2, court.ModeBase)
	base := court.DefaultTable().Get(key)

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Put(key, base.With(court.RoleRS, court.Coordinate{X: 1, Y: 1})))
			require.NoError(t, b.Put(key, base.With(court.RoleRS, court.Coordinate{X: 2, Y: 2})))

			got, ok, err := b.Get(key)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, court.Coordinate{X: 2, Y: 2}, got[court.RoleRS])

			keys, err := b.Keys()
			require.NoError(t, err)
			assert.Equal(t, []court.PositionKey{key}, keys)
		})
	}
}

func TestBackends_StoredCopyIsIndependent(t *testing.T) {
	key := court.Key(court.L1, court.ModeService)

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			set := court.DefaultTable().Get(key)
			require.NoError(t, b.Put(key, set))
			set[court.RoleS] = court.Coordinate{X: 0, Y: 0}

			got, _, err := b.Get(key)
			require.NoError(t, err)
			assert.Equal(t, court.Coordinate{X: 80, Y: 97}, got[court.RoleS])
		})
	}
}

func TestBackends_RejectIncompleteSet(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := b.Put(court.Key(court.L1, court.ModeBase), court.PositionSet{court.RoleS: {X: 1, Y: 1}})
			assert.ErrorIs(t, err, storage.ErrIncompleteSet)
		})
	}
}

func TestBackends_KeysDeleteClear(t *testing.T) {
	tbl := court.DefaultTable()
	k1 := court.Key(court.L4, court.ModeBase)
	k2 := court.Key(court.L1, court.ModeReceive)
	k3 := court.Key(court.L1, court.ModeActual)

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []court.PositionKey{k1, k2, k3} {
				require.NoError(t, b.Put(k, tbl.Get(k)))
			}

			keys, err := b.Keys()
			require.NoError(t, err)
			assert.Equal(t, []court.PositionKey{k3, k2, k1}, keys)

			require.NoError(t, b.Delete(k2))
			require.NoError(t, b.Delete(k2))
			keys, err = b.Keys()
			require.NoError(t, err)
			assert.Equal(t, []court.PositionKey{k3, k1}, keys)

			require.NoError(t, b.Clear())
			keys, err = b.Keys()
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestSortKeys_DropsUnknown(t *testing.T) {
	keys := storage.SortKeys(map[court.PositionKey]bool{
		court.Key(court.L2, court.ModeActual): true,
		court.Key("L9", court.ModeActual):     true,
		court.Key(court.L1, court.ModeBase):   true,
		court.Key(court.L1, court.ModeActual): false,
	})
	assert.Equal(t, []court.PositionKey{
		court.Key(court.L1, court.ModeBase),
		court.Key(court.L2, court.ModeActual),
	}, keys)
}
