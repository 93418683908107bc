// Package editor holds the single editing session: the rotation and mode on
// screen, the simulated rally phase, highlights and the path overlay.
package editor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/export"
	"github.com/courtside/rotations/internal/path"
	"github.com/courtside/rotations/internal/phase"
	"github.com/courtside/rotations/internal/position"
)

// Options configures a new Session.
type Options struct {
	StartRotation court.Rotation
	PathThreshold float64
	Logger        *slog.Logger
}

// Session is the one mutable state container of the editor. All methods are
// safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	resolver  *position.Resolver
	tracker   *path.Tracker
	threshold float64
	log       *slog.Logger
	metrics   *metrics

	rotation   court.Rotation
	mode       court.Mode
	phase      phase.Phase
	highlights []court.Role
	showPath   bool
	derived    bool

	// status mirrors rotation and phase for readers that must not lock.
	status atomic.Pointer[Status]
}

// Status is the rotation and phase on screen.
type Status struct {
	Rotation court.Rotation
	Phase    phase.Phase
}

// New creates a session at the start rotation in the setup phase.
func New(resolver *position.Resolver, opts Options) (*Session, error) {
	if opts.StartRotation == "" {
		opts.StartRotation = court.L1
	}
	if _, err := court.ParseRotation(string(opts.StartRotation)); err != nil {
		return nil, err
	}
	if opts.PathThreshold <= 0 {
		opts.PathThreshold = path.DefaultThreshold
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	s := &Session{
		resolver:  resolver,
		tracker:   path.NewTracker(),
		threshold: opts.PathThreshold,
		log:       opts.Logger.With("component", "editor"),
		metrics:   m,
		rotation:  opts.StartRotation,
	}
	s.phase, s.mode = phase.Reset()
	s.publishLocked()
	return s, nil
}

// Status returns the rotation and phase without taking the session lock,
// so it is safe to call from log handlers.
func (s *Session) Status() Status {
	return *s.status.Load()
}

func (s *Session) publishLocked() {
	s.status.Store(&Status{Rotation: s.rotation, Phase: s.phase})
}

// Fire applies trigger to the current phase. It returns false, changing
// nothing, when the phase has no transition for trigger.
func (s *Session) Fire(trigger phase.Trigger) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := phase.Next(s.phase, trigger)
	if !ok {
		s.metrics.ignored(string(s.phase), string(trigger))
		s.log.Debug("trigger ignored", "phase", s.phase, "trigger", trigger)
		return false
	}

	// Both are read before any field changes.
	ready := s.resolver.SetReady(s.rotation)
	shown := s.displayedLocked()

	switch tr.Effect.Path {
	case phase.PathClear:
		s.tracker.Clear()
	case phase.PathCapture:
		s.tracker.Snapshot(shown)
		s.showPath = true
	}

	switch tr.Effect.Highlight {
	case phase.HighlightFrontRow:
		s.highlights = ready.FrontRow
	default:
		s.highlights = nil
	}

	s.mode = tr.Effect.Mode
	s.derived = tr.Effect.Derived
	s.phase = tr.To
	s.publishLocked()

	s.log.Info("phase changed", "from", tr.From, "trigger", trigger, "to", tr.To, "mode", s.mode)
	return true
}

// SetRotation switches rotation and resets the rally: setup phase, actual
// mode, no highlights, no snapshot, path display off.
func (s *Session) SetRotation(rot court.Rotation) error {
	if _, err := court.ParseRotation(string(rot)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rotation = rot
	s.phase, s.mode = phase.Reset()
	s.highlights = nil
	s.tracker.Clear()
	s.showPath = false
	s.derived = false
	s.publishLocked()

	s.log.Info("rotation changed", "rotation", rot)
	return nil
}

// SetMode shows another mode of the current rotation without touching the
// phase. With path display on, the set shown before the switch becomes the
// snapshot. Derived display and highlights end.
func (s *Session) SetMode(mode court.Mode) error {
	if _, err := court.ParseMode(string(mode)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.showPath {
		s.tracker.Snapshot(s.displayedLocked())
	}
	s.mode = mode
	s.derived = false
	s.highlights = nil

	s.log.Debug("mode changed", "mode", mode)
	return nil
}

// Drag moves role to (x, y) in the displayed set and returns the stored
// coordinate. While the set-ready formation is shown the edit lands in the
// set the role is taken from: receive for the setter, base for everyone else.
func (s *Session) Drag(role court.Role, x, y float64) (court.Coordinate, error) {
	if _, err := court.ParseRole(string(role)); err != nil {
		return court.Coordinate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mode := s.dragTargetLocked(role)
	c, err := s.resolver.ApplyDrag(s.rotation, mode, role, x, y)
	if err != nil {
		s.log.Error("drag failed", "rotation", s.rotation, "mode", mode, "role", role, "error", err)
		return c, err
	}

	if s.derived {
		s.highlights = s.resolver.FrontRow(s.rotation)
	}
	return c, nil
}

func (s *Session) dragTargetLocked(role court.Role) court.Mode {
	if !s.derived {
		return s.mode
	}
	if role == court.RoleS {
		return court.ModeReceive
	}
	return court.ModeBase
}

// TogglePath flips path display. Turning it off drops the snapshot.
func (s *Session) TogglePath() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.showPath = !s.showPath
	if !s.showPath {
		s.tracker.Clear()
	}
	return s.showPath
}

// ResetKey drops the override of the shown rotation and mode.
func (s *Session) ResetKey() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolver.Reset(s.rotation, s.mode); err != nil {
		return err
	}
	if s.derived {
		s.highlights = s.resolver.FrontRow(s.rotation)
	}
	return nil
}

// ResetAll drops every override.
func (s *Session) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolver.ResetAll(); err != nil {
		return err
	}
	if s.derived {
		s.highlights = s.resolver.FrontRow(s.rotation)
	}
	return nil
}

// Export builds the full table document. Phase and derived display play no
// part in it.
func (s *Session) Export() (export.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return export.Build(s.resolver)
}

// Deliver exports and hands the document to cb. It holds the session lock
// only while building the document.
func (s *Session) Deliver(ctx context.Context, cb export.Clipboard) export.Delivery {
	doc, err := s.Export()
	if err != nil {
		s.log.Warn("export used base entries for failing keys", "error", err)
	}
	d := export.Deliver(ctx, cb, doc)
	if d.Err != nil {
		s.log.Warn("clipboard unavailable", "error", d.Err)
	} else {
		s.log.Info("export copied", "tool", d.Tool)
	}
	return d
}

func (s *Session) displayedLocked() court.PositionSet {
	if s.derived {
		return s.resolver.SetReady(s.rotation).Positions
	}
	set, err := s.resolver.Resolve(s.rotation, s.mode)
	if err != nil {
		s.log.Debug("showing base positions", "rotation", s.rotation, "mode", s.mode, "error", err)
	}
	return set
}
