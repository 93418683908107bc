// Package phase is the play-simulation state machine: five phases walked by
// named triggers, each transition carrying the display effect it implies.
package phase

import (
	"errors"
	"fmt"

	"github.com/courtside/rotations/internal/court"
)

// ErrUnknownTrigger is returned for trigger names outside the table.
var ErrUnknownTrigger = errors.New("unknown trigger")

// Phase is the current step of the simulated rally.
type Phase string

const (
	Setup    Phase = "setup"
	Serve    Phase = "serve"
	Receive  Phase = "receive"
	SetReady Phase = "set-ready"
	Defense  Phase = "defense"
)

// Phases lists every phase.
var Phases = []Phase{Setup, Serve, Receive, SetReady, Defense}

// Label is the caption shown while the phase is active.
func (p Phase) Label() string {
	switch p {
	case Setup:
		return "Setup"
	case Serve:
		return "Serve"
	case Receive:
		return "Reception"
	case SetReady:
		return "Set ready"
	case Defense:
		return "Defense"
	default:
		return string(p)
	}
}

// Trigger is a user action that may advance the rally.
type Trigger string

const (
	StartServe          Trigger = "start_serve"
	StartReceive        Trigger = "start_receive"
	ServeExecuted       Trigger = "serve_executed"
	ReceptionSuccessful Trigger = "reception_successful"
	AttackExecuted      Trigger = "attack_executed"
	PointLost           Trigger = "point_lost"
	DigSuccessful       Trigger = "dig_successful"
	DigFailed           Trigger = "dig_failed"
)

// Triggers lists every trigger.
var Triggers = []Trigger{
	StartServe, StartReceive, ServeExecuted, ReceptionSuccessful,
	AttackExecuted, PointLost, DigSuccessful, DigFailed,
}

// ParseTrigger converts a trigger name to a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	for _, t := range Triggers {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTrigger, s)
}

// Label is the button caption for the trigger.
func (t Trigger) Label() string {
	switch t {
	case StartServe:
		return "Start serve"
	case StartReceive:
		return "Start receive"
	case ServeExecuted:
		return "Serve executed"
	case ReceptionSuccessful:
		return "Reception successful"
	case AttackExecuted:
		return "Attack executed"
	case PointLost:
		return "Point lost"
	case DigSuccessful:
		return "Dig successful"
	case DigFailed:
		return "Dig failed"
	default:
		return string(t)
	}
}

// Highlight says what happens to the highlight set on a transition.
type Highlight int

const (
	HighlightClear Highlight = iota
	HighlightFrontRow
)

// Path says what happens to the path snapshot on a transition.
type Path int

const (
	// PathClear drops the snapshot and leaves path display as it was.
	PathClear Path = iota
	// PathCapture snapshots the set shown before the transition and turns path display on.
	PathCapture
)

// Effect is the display change a transition implies.
type Effect struct {
	Mode      court.Mode
	Highlight Highlight
	Path      Path
	// Derived shows the set-ready formation instead of the resolved mode set.
	Derived bool
}

// Transition is one row of the table.
type Transition struct {
	From    Phase
	Trigger Trigger
	To      Phase
	Effect  Effect
}

var table = []Transition{
	{Setup, StartServe, Serve, Effect{Mode: court.ModeService, Highlight: HighlightClear, Path: PathClear}},
	{Setup, StartReceive, Receive, Effect{Mode: court.ModeReceive, Highlight: HighlightClear, Path: PathClear}},
	{Serve, ServeExecuted, Defense, Effect{Mode: court.ModeBase, Highlight: HighlightClear, Path: PathCapture}},
	{Receive, ReceptionSuccessful, SetReady, Effect{Mode: court.ModeReceive, Highlight: HighlightFrontRow, Path: PathCapture, Derived: true}},
	{SetReady, AttackExecuted, Defense, Effect{Mode: court.ModeBase, Highlight: HighlightClear, Path: PathCapture}},
	{SetReady, PointLost, Receive, Effect{Mode: court.ModeReceive, Highlight: HighlightClear, Path: PathCapture}},
	{Defense, DigSuccessful, SetReady, Effect{Mode: court.ModeReceive, Highlight: HighlightFrontRow, Path: PathCapture, Derived: true}},
	{Defense, DigFailed, Receive, Effect{Mode: court.ModeReceive, Highlight: HighlightClear, Path: PathCapture}},
}

// Next looks up the transition for trigger fired in phase from. ok is false
// when the table has no such row; callers treat that as a no-op.
func Next(from Phase, trigger Trigger) (Transition, bool) {
	for _, t := range table {
		if t.From == from && t.Trigger == trigger {
			return t, true
		}
	}
	return Transition{}, false
}

// Available lists the triggers that have a transition out of p, in table order.
func Available(p Phase) []Trigger {
	var out []Trigger
	for _, t := range table {
		if t.From == p {
			out = append(out, t.Trigger)
		}
	}
	return out
}

// Table returns a copy of the transition table.
func Table() []Transition {
	out := make([]Transition, len(table))
	copy(out, table)
	return out
}

// Reset is the state every rotation change returns to.
func Reset() (Phase, court.Mode) {
	return Setup, court.ModeActual
}
