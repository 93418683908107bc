package database

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   uint `gorm:"primarykey"`
	Name string
}

func TestManager_ConnectSetupClose(t *testing.T) {
	m := NewManager(zerolog.Nop())
	assert.False(t, m.IsValid)

	require.NoError(t, m.Connect())
	assert.True(t, m.IsValid)
	require.NoError(t, m.Setup(&row{}))

	require.NoError(t, m.DB.Create(&row{Name: "S"}).Error)
	var got row
	require.NoError(t, m.DB.First(&got).Error)
	assert.Equal(t, "S", got.Name)

	require.NoError(t, m.Close())
	assert.False(t, m.IsValid)
}

func TestManager_SetupBeforeConnect(t *testing.T) {
	m := NewManager(zerolog.Nop())
	assert.Error(t, m.Setup(&row{}))
	assert.NoError(t, m.Close())
}

func TestGetSqliteDBStandalone_IsPrivate(t *testing.T) {
	a, err := GetSqliteDBStandalone()
	require.NoError(t, err)
	b, err := GetSqliteDBStandalone()
	require.NoError(t, err)

	require.NoError(t, a.AutoMigrate(&row{}))
	assert.True(t, a.Migrator().HasTable(&row{}))
	assert.False(t, b.Migrator().HasTable(&row{}))
}
