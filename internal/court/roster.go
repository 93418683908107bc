package court

// RoleMeta describes how a role is presented.
type RoleMeta struct {
	Name  string // long display name
	Class string // style class shared by both players of a position
}

var roleMeta = map[Role]RoleMeta{
	RoleRS:  {Name: "Opposite", Class: "rs"},
	RoleS:   {Name: "Setter", Class: "s"},
	RoleOH1: {Name: "Outside Hitter 1", Class: "oh"},
	RoleOH2: {Name: "Outside Hitter 2", Class: "oh"},
	RoleMB1: {Name: "Middle Blocker 1", Class: "mb"},
	RoleMB2: {Name: "Middle Blocker 2", Class: "mb"},
}

// Meta returns the presentation metadata for r.
func (r Role) Meta() RoleMeta {
	return roleMeta[r]
}

// Roster maps each role to the player shown on the dot.
type Roster map[Role]string

// DefaultRoster is the line-up used when no player names are configured.
func DefaultRoster() Roster {
	return Roster{
		RoleRS:  "Robin",
		RoleS:   "Atachan",
		RoleOH1: "Sara",
		RoleOH2: "Tim",
		RoleMB1: "Wiebke",
		RoleMB2: "Jonatan",
	}
}

// Merge returns the default roster with every non-empty name from names applied.
// Unknown role tags are ignored.
func (ro Roster) Merge(names map[string]string) Roster {
	out := make(Roster, len(Roles))
	for _, r := range Roles {
		out[r] = ro[r]
	}
	for tag, name := range names {
		r, err := ParseRole(tag)
		if err != nil || name == "" {
			continue
		}
		out[r] = name
	}
	return out
}

// Name returns the player name for r, falling back to the role tag.
func (ro Roster) Name(r Role) string {
	if n, ok := ro[r]; ok && n != "" {
		return n
	}
	return string(r)
}
