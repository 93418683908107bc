package editor

import (
	"slices"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/path"
	"github.com/courtside/rotations/internal/phase"
)

// View is a consistent copy of what the screen should show.
type View struct {
	Rotation   court.Rotation
	Mode       court.Mode
	Phase      phase.Phase
	Positions  court.PositionSet
	Highlights []court.Role
	Moves      []path.Move
	ShowPath   bool
	Derived    bool
	Overridden bool
	Triggers   []phase.Trigger
}

// Highlighted reports whether role is emphasised.
func (v View) Highlighted(role court.Role) bool {
	return slices.Contains(v.Highlights, role)
}

// View returns the current display state.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shown := s.displayedLocked()
	v := View{
		Rotation:   s.rotation,
		Mode:       s.mode,
		Phase:      s.phase,
		Positions:  shown,
		Highlights: slices.Clone(s.highlights),
		ShowPath:   s.showPath,
		Derived:    s.derived,
		Overridden: s.resolver.IsOverridden(s.rotation, s.mode),
		Triggers:   phase.Available(s.phase),
	}
	if s.showPath {
		v.Moves = path.Significant(s.tracker.Diff(shown), s.threshold)
	}
	return v
}

// Rotation returns the current rotation.
func (s *Session) Rotation() court.Rotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rotation
}

// Phase returns the current phase.
func (s *Session) Phase() phase.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Snapshot returns a copy of the path snapshot, or nil.
func (s *Session) Snapshot() court.PositionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Current()
}
