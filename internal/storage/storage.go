// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/courtside/rotations/internal/court"
)

// ErrIncompleteSet is returned when a backend is asked to store a set that
// does not cover all six roles.
var ErrIncompleteSet = errors.New("position set must contain all six roles")

// Backend is the override store: a sparse mapping from (rotation, mode) to a
// complete replacement PositionSet. All implementations keep data for the
// lifetime of the session only.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Get returns the stored override for key, if any.
	Get(key court.PositionKey) (court.PositionSet, bool, error)
	// Put replaces the override for key. The set must be complete.
	Put(key court.PositionKey, set court.PositionSet) error
	// Delete removes the override for key; deleting a missing key is not an error.
	Delete(key court.PositionKey) error
	// Keys lists stored keys in canonical order.
	Keys() ([]court.PositionKey, error)
	// Clear removes every override.
	Clear() error
}

// SortKeys orders keys rotation-major in canonical order, dropping keys
// that are not part of the table.
func SortKeys(present map[court.PositionKey]bool) []court.PositionKey {
	out := make([]court.PositionKey, 0, len(present))
	for _, k := range court.Keys() {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}
