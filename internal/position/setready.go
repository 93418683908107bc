package position

import (
	"github.com/courtside/rotations/internal/court"
)

// SetReady is the formation right after a good first contact: the setter
// holds the receive spot while everyone else drops to base defense.
type SetReady struct {
	Positions court.PositionSet
	FrontRow  []court.Role
}

// SetReady derives the set-ready formation and its attackers for rot from the
// currently resolved receive and base sets. It reads nothing but rot and the
// resolver, so it can be evaluated before any session state changes.
func (r *Resolver) SetReady(rot court.Rotation) SetReady {
	receive := r.MustResolve(rot, court.ModeReceive)
	base := r.MustResolve(rot, court.ModeBase)

	set := make(court.PositionSet, len(court.Roles))
	for _, role := range court.Roles {
		if role == court.RoleS {
			set[role] = receive[role]
			continue
		}
		set[role] = base[role]
	}

	return SetReady{Positions: set, FrontRow: frontRow(set)}
}

// FrontRow returns the attackers of the set-ready formation for rot: every
// role except the setter standing in the net half.
func (r *Resolver) FrontRow(rot court.Rotation) []court.Role {
	return r.SetReady(rot).FrontRow
}

func frontRow(set court.PositionSet) []court.Role {
	var out []court.Role
	for _, role := range court.Roles {
		if role == court.RoleS {
			continue
		}
		if set[role].InNetHalf() {
			out = append(out, role)
		}
	}
	return out
}
