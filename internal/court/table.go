package court

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrIncompleteTable marks a base table that misses a key, a role or holds
// an out-of-range coordinate. It is a build or configuration defect.
var ErrIncompleteTable = errors.New("incomplete position table")

//go:embed positions.yaml
var defaultPositions []byte

// Table is the immutable base position table: one complete PositionSet per
// (rotation, mode).
type Table struct {
	sets map[PositionKey]PositionSet
}

// tableFile mirrors the YAML layout: rotation -> mode -> role -> coordinate.
type tableFile map[string]map[string]map[string]Coordinate

// LoadTable parses and validates a YAML position table.
func LoadTable(r io.Reader) (*Table, error) {
	var raw tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding position table: %w", err)
	}

	t := &Table{sets: make(map[PositionKey]PositionSet, len(Rotations)*len(Modes))}
	for rotName, modes := range raw {
		rot, err := ParseRotation(rotName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncompleteTable, err)
		}
		for modeName, roles := range modes {
			mode, err := ParseMode(modeName)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrIncompleteTable, rot, err)
			}
			set := make(PositionSet, len(roles))
			for tag, c := range roles {
				role, err := ParseRole(tag)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %w", ErrIncompleteTable, Key(rot, mode), err)
				}
				if !c.valid() {
					return nil, fmt.Errorf("%w: %s %s out of range (%v, %v)", ErrIncompleteTable, Key(rot, mode), role, c.X, c.Y)
				}
				set[role] = c
			}
			t.sets[Key(rot, mode)] = set
		}
	}

	for _, k := range Keys() {
		set, ok := t.sets[k]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrIncompleteTable, k)
		}
		for _, role := range Roles {
			if _, ok := set[role]; !ok {
				return nil, fmt.Errorf("%w: %s missing role %s", ErrIncompleteTable, k, role)
			}
		}
	}

	return t, nil
}

// LoadTableFile reads a YAML position table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening position table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := LoadTable(bytes.NewReader(defaultPositions))
	if err != nil {
		panic(fmt.Sprintf("embedded position table: %v", err))
	}
	return t
})

// DefaultTable returns the embedded 5-1 position table.
func DefaultTable() *Table {
	return defaultTable()
}

// Get returns a copy of the base set for k. A missing key is a configuration
// defect and panics; LoadTable guarantees every key exists.
func (t *Table) Get(k PositionKey) PositionSet {
	set, ok := t.sets[k]
	if !ok {
		panic(fmt.Sprintf("%v: %s", ErrIncompleteTable, k))
	}
	return set.Clone()
}

// Coordinate returns a single base coordinate.
func (t *Table) Coordinate(k PositionKey, r Role) Coordinate {
	return t.Get(k)[r]
}
