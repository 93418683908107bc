package sqlitestorage

import (
	"testing"

	"github.com/courtside/rotations/internal/court"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_NotInitialized(t *testing.T) {
	b := New(zerolog.Nop())

	_, _, err := b.Get(court.Key(court.L1, court.ModeActual))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	err = b.Put(court.Key(court.L1, court.ModeActual), court.DefaultTable().Get(court.Key(court.L1, court.ModeActual)))
	require.Error(t, err)
}

func TestBackend_SeparateInstancesDoNotShare(t *testing.T) {
	a := New(zerolog.Nop())
	b := New(zerolog.Nop())
	require.NoError(t, a.Init())
	require.NoError(t, b.Init())
	defer a.Close()
	defer b.Close()

	key := court.Key(court.L5, court.ModeBase)
	require.NoError(t, a.Put(key, court.DefaultTable().Get(key)))

	_, ok, err := b.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_CloseDropsData(t *testing.T) {
	b := New(zerolog.Nop())
	require.NoError(t, b.Init())

	key := court.Key(court.L6, court.ModeService)
	require.NoError(t, b.Put(key, court.DefaultTable().Get(key)))
	require.NoError(t, b.Close())

	require.NoError(t, b.Init())
	defer b.Close()
	keys, err := b.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
