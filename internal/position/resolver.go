// Package position resolves the coordinates shown for a rotation and mode:
// base table entries shadowed by drag overrides, plus the derived set-ready
// formation.
package position

import (
	"errors"
	"fmt"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/storage"
)

// Resolver merges the immutable base table with the session's override store.
type Resolver struct {
	table *court.Table
	store storage.Backend
}

// NewResolver creates a resolver over table and store.
func NewResolver(table *court.Table, store storage.Backend) *Resolver {
	return &Resolver{table: table, store: store}
}

// Table returns the base table.
func (r *Resolver) Table() *court.Table {
	return r.table
}

// Resolve returns the override for (rot, mode) if one exists, else the base
// entry. A failing store, or a stored set missing roles, falls back to the
// base entry and reports the error; the latter wraps storage.ErrIncompleteSet.
func (r *Resolver) Resolve(rot court.Rotation, mode court.Mode) (court.PositionSet, error) {
	key := court.Key(rot, mode)
	base := r.table.Get(key)

	set, ok, err := r.store.Get(key)
	if err != nil {
		return base, fmt.Errorf("resolving %s: %w", key, err)
	}
	if !ok {
		return base, nil
	}
	if !set.Complete() {
		return base, fmt.Errorf("resolving %s: stored override has %d roles: %w", key, len(set), storage.ErrIncompleteSet)
	}
	return set, nil
}

// MustResolve is Resolve for callers that only want the displayed set.
func (r *Resolver) MustResolve(rot court.Rotation, mode court.Mode) court.PositionSet {
	set, _ := r.Resolve(rot, mode)
	return set
}

// ApplyDrag moves one role of (rot, mode) to (x, y). Coordinates are clamped
// to [0, 100] and rounded to two decimals; every other role keeps its
// currently resolved coordinate. A damaged override is replaced by one built
// from the base entry.
func (r *Resolver) ApplyDrag(rot court.Rotation, mode court.Mode, role court.Role, x, y float64) (court.Coordinate, error) {
	key := court.Key(rot, mode)
	c := court.Coordinate{X: x, Y: y}.Clamp().Round2()

	current, err := r.Resolve(rot, mode)
	if err != nil && !errors.Is(err, storage.ErrIncompleteSet) {
		return c, err
	}
	if err := r.store.Put(key, current.With(role, c)); err != nil {
		return c, fmt.Errorf("dragging %s in %s: %w", role, key, err)
	}
	return c, nil
}

// IsOverridden reports whether (rot, mode) currently has an override.
func (r *Resolver) IsOverridden(rot court.Rotation, mode court.Mode) bool {
	_, ok, err := r.store.Get(court.Key(rot, mode))
	return err == nil && ok
}

// Reset drops the override for (rot, mode).
func (r *Resolver) Reset(rot court.Rotation, mode court.Mode) error {
	return r.store.Delete(court.Key(rot, mode))
}

// ResetAll drops every override.
func (r *Resolver) ResetAll() error {
	return r.store.Clear()
}

// Overrides lists the keys that currently have overrides.
func (r *Resolver) Overrides() ([]court.PositionKey, error) {
	return r.store.Keys()
}
