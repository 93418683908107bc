// Package sqlitestorage implements the storage.Backend interface on top of an
// in-memory SQLite database accessed through GORM. The database is private
// to the session and is never dumped to disk.
package sqlitestorage

import (
	"errors"
	"fmt"
	"time"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/database"
	"github.com/courtside/rotations/internal/storage"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Override is one stored replacement set.
type Override struct {
	ID        uint   `gorm:"primarykey"`
	Rotation  string `gorm:"size:2;uniqueIndex:idx_override_key"`
	Mode      string `gorm:"size:16;uniqueIndex:idx_override_key"`
	Positions datatypes.JSONType[court.PositionSet]
	UpdatedAt time.Time
}

// Backend stores overrides in an in-memory SQLite table.
type Backend struct {
	dbm *database.Manager
	db  *gorm.DB
}

// New creates a new SQLite storage backend. The connection is opened in Init.
func New(log zerolog.Logger) *Backend {
	return &Backend{dbm: database.NewManager(log)}
}

// Init opens the database and migrates the override table.
func (b *Backend) Init() error {
	if err := b.dbm.Connect(); err != nil {
		return err
	}
	if err := b.dbm.Setup(&Override{}); err != nil {
		return err
	}
	b.db = b.dbm.DB
	return nil
}

// Close drops the database.
func (b *Backend) Close() error {
	b.db = nil
	return b.dbm.Close()
}

func (b *Backend) ready() error {
	if b.db == nil {
		return fmt.Errorf("sqlite override store not initialized")
	}
	return nil
}

// Get returns the stored override for key.
func (b *Backend) Get(key court.PositionKey) (court.PositionSet, bool, error) {
	if err := b.ready(); err != nil {
		return nil, false, err
	}

	var row Override
	err := b.db.Where("rotation = ? AND mode = ?", string(key.Rotation), string(key.Mode)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading override %s: %w", key, err)
	}
	return row.Positions.Data(), true, nil
}

// Put inserts or replaces the override for key.
func (b *Backend) Put(key court.PositionKey, set court.PositionSet) error {
	if !set.Complete() {
		return storage.ErrIncompleteSet
	}
	if err := b.ready(); err != nil {
		return err
	}

	row := Override{
		Rotation:  string(key.Rotation),
		Mode:      string(key.Mode),
		Positions: datatypes.NewJSONType(set.Clone()),
		UpdatedAt: time.Now(),
	}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rotation"}, {Name: "mode"}},
		DoUpdates: clause.AssignmentColumns([]string{"positions", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("storing override %s: %w", key, err)
	}
	return nil
}

// Delete removes the override for key.
func (b *Backend) Delete(key court.PositionKey) error {
	if err := b.ready(); err != nil {
		return err
	}

	err := b.db.Where("rotation = ? AND mode = ?", string(key.Rotation), string(key.Mode)).Delete(&Override{}).Error
	if err != nil {
		return fmt.Errorf("deleting override %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in canonical order.
func (b *Backend) Keys() ([]court.PositionKey, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}

	var rows []Override
	if err := b.db.Select("rotation", "mode").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing overrides: %w", err)
	}

	present := make(map[court.PositionKey]bool, len(rows))
	for _, r := range rows {
		present[court.Key(court.Rotation(r.Rotation), court.Mode(r.Mode))] = true
	}
	return storage.SortKeys(present), nil
}

// Clear removes every override.
func (b *Backend) Clear() error {
	if err := b.ready(); err != nil {
		return err
	}

	if err := b.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Override{}).Error; err != nil {
		return fmt.Errorf("clearing overrides: %w", err)
	}
	return nil
}
