// Package court holds the volleyball court data model: roles, rotations,
// modes, coordinates and the immutable base position table.
package court

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownRole     = errors.New("unknown role")
	ErrUnknownRotation = errors.New("unknown rotation")
	ErrUnknownMode     = errors.New("unknown mode")
)

// Role identifies one of the six players on court.
type Role string

const (
	RoleRS  Role = "RS"
	RoleS   Role = "S"
	RoleOH1 Role = "OH1"
	RoleOH2 Role = "OH2"
	RoleMB1 Role = "MB1"
	RoleMB2 Role = "MB2"
)

// Roles lists every role in canonical order.
var Roles = []Role{RoleRS, RoleS, RoleOH1, RoleOH2, RoleMB1, RoleMB2}

// ParseRole converts a role tag such as "OH1" to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Rotation is a serve-rotation configuration; Ln means the setter starts in zone n.
type Rotation string

const (
	L1 Rotation = "L1"
	L2 Rotation = "L2"
	L3 Rotation = "L3"
	L4 Rotation = "L4"
	L5 Rotation = "L5"
	L6 Rotation = "L6"
)

// Rotations lists every rotation in canonical order.
var Rotations = []Rotation{L1, L2, L3, L4, L5, L6}

// RotationCycle is the order a team moves through when it wins side-outs.
var RotationCycle = []Rotation{L1, L6, L5, L4, L3, L2}

// ParseRotation converts "L1".."L6" to a Rotation.
func ParseRotation(s string) (Rotation, error) {
	for _, r := range Rotations {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRotation, s)
}

// Next returns the rotation that follows r in the rotation cycle.
func (r Rotation) Next() Rotation {
	for i, c := range RotationCycle {
		if c == r {
			return RotationCycle[(i+1)%len(RotationCycle)]
		}
	}
	return r
}

// Mode is a tactical snapshot type.
type Mode string

const (
	ModeActual  Mode = "actual"
	ModeService Mode = "service"
	ModeReceive Mode = "receive"
	ModeBase    Mode = "base"
)

// Modes lists every mode in canonical order.
var Modes = []Mode{ModeActual, ModeService, ModeReceive, ModeBase}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Label is the button caption for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeActual:
		return "Actual"
	case ModeService:
		return "Service"
	case ModeReceive:
		return "Serve Receive"
	case ModeBase:
		return "Base (Defense)"
	default:
		return string(m)
	}
}

// PositionKey addresses one entry of the base table or the override store.
type PositionKey struct {
	Rotation Rotation
	Mode     Mode
}

// Key builds a PositionKey.
func Key(r Rotation, m Mode) PositionKey {
	return PositionKey{Rotation: r, Mode: m}
}

func (k PositionKey) String() string {
	return fmt.Sprintf("%s-%s", k.Rotation, k.Mode)
}

// Keys returns all 24 keys, rotation-major in canonical order.
func Keys() []PositionKey {
	keys := make([]PositionKey, 0, len(Rotations)*len(Modes))
	for _, r := range Rotations {
		for _, m := range Modes {
			keys = append(keys, Key(r, m))
		}
	}
	return keys
}

// Coordinate is a position in court-percentage space, both axes in [0, 100].
// y < 50 is the half of the court nearest the net.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NetHalf is the y boundary between the attacking and the back half.
const NetHalf = 50.0

// Clamp limits both axes to [0, 100].
func (c Coordinate) Clamp() Coordinate {
	return Coordinate{X: clamp(c.X), Y: clamp(c.Y)}
}

// Round2 rounds both axes to two decimals.
func (c Coordinate) Round2() Coordinate {
	return Coordinate{X: Round2(c.X), Y: Round2(c.Y)}
}

// Distance returns the euclidean distance to o in court units.
func (c Coordinate) Distance(o Coordinate) float64 {
	return math.Hypot(o.X-c.X, o.Y-c.Y)
}

// InNetHalf reports whether the coordinate lies in the attacking half.
func (c Coordinate) InNetHalf() bool {
	return c.Y < NetHalf
}

func (c Coordinate) valid() bool {
	return c.X >= 0 && c.X <= 100 && c.Y >= 0 && c.Y <= 100
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// PositionSet maps each role to its coordinate.
type PositionSet map[Role]Coordinate

// Clone returns an independent copy of the set.
func (p PositionSet) Clone() PositionSet {
	if p == nil {
		return nil
	}
	out := make(PositionSet, len(p))
	for r, c := range p {
		out[r] = c
	}
	return out
}

// Complete reports whether every role has a coordinate.
func (p PositionSet) Complete() bool {
	for _, r := range Roles {
		if _, ok := p[r]; !ok {
			return false
		}
	}
	return true
}

// With returns a copy of the set with role moved to c.
func (p PositionSet) With(role Role, c Coordinate) PositionSet {
	out := p.Clone()
	if out == nil {
		out = make(PositionSet, len(Roles))
	}
	out[role] = c
	return out
}

// Equal reports whether both sets hold the same roles at the same coordinates.
func (p PositionSet) Equal(o PositionSet) bool {
	if len(p) != len(o) {
		return false
	}
	for r, c := range p {
		if oc, ok := o[r]; !ok || oc != c {
			return false
		}
	}
	return true
}
