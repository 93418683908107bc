// Package path remembers the last displayed formation so movement between
// two formations can be drawn as arrows.
package path

import (
	"github.com/courtside/rotations/internal/court"
)

// DefaultThreshold is the shortest movement, in court units, worth drawing.
const DefaultThreshold = 5.0

// Move is one role's displacement between snapshot and current set.
type Move struct {
	Role court.Role
	From court.Coordinate
	To   court.Coordinate
}

// Length returns the distance travelled.
func (m Move) Length() float64 {
	return m.From.Distance(m.To)
}

// Tracker holds at most one snapshot.
type Tracker struct {
	snapshot court.PositionSet
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Snapshot stores a copy of set, replacing any previous snapshot.
func (t *Tracker) Snapshot(set court.PositionSet) {
	t.snapshot = set.Clone()
}

// Clear drops the snapshot.
func (t *Tracker) Clear() {
	t.snapshot = nil
}

// Has reports whether a snapshot exists.
func (t *Tracker) Has() bool {
	return t.snapshot != nil
}

// Current returns a copy of the snapshot, or nil.
func (t *Tracker) Current() court.PositionSet {
	return t.snapshot.Clone()
}

// Diff pairs every role present in both the snapshot and current, in
// canonical role order. Without a snapshot the result is empty.
func (t *Tracker) Diff(current court.PositionSet) []Move {
	if t.snapshot == nil {
		return nil
	}

	var moves []Move
	for _, role := range court.Roles {
		from, ok := t.snapshot[role]
		if !ok {
			continue
		}
		to, ok := current[role]
		if !ok {
			continue
		}
		moves = append(moves, Move{Role: role, From: from, To: to})
	}
	return moves
}

// Significant keeps moves at least threshold long.
func Significant(moves []Move, threshold float64) []Move {
	var out []Move
	for _, m := range moves {
		if m.Length() >= threshold {
			out = append(out, m)
		}
	}
	return out
}
