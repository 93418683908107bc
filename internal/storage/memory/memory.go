// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/storage"
)

// Backend keeps overrides in a map for the lifetime of the session.
type Backend struct {
	overrides map[court.PositionKey]court.PositionSet
	mu        sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		overrides: make(map[court.PositionKey]court.PositionSet),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return b.Clear()
}

// Get returns a copy of the stored override
func (b *Backend) Get(key court.PositionKey) (court.PositionSet, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set, ok := b.overrides[key]
	if !ok {
		return nil, false, nil
	}
	return set.Clone(), true, nil
}

// Put stores a copy of set
func (b *Backend) Put(key court.PositionKey, set court.PositionSet) error {
	if !set.Complete() {
		return storage.ErrIncompleteSet
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.overrides[key] = set.Clone()
	return nil
}

// Delete removes an override
func (b *Backend) Delete(key court.PositionKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.overrides, key)
	return nil
}

// Keys lists stored keys
func (b *Backend) Keys() ([]court.PositionKey, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	present := make(map[court.PositionKey]bool, len(b.overrides))
	for k := range b.overrides {
		present[k] = true
	}
	return storage.SortKeys(present), nil
}

// Clear drops every override
func (b *Backend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.overrides = make(map[court.PositionKey]court.PositionSet)
	return nil
}
