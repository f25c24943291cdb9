package domain

import "time"

// Role is a member's function inside their company (team)
type Role string

const (
	RoleDG            Role = "dg"
	RoleCommercial    Role = "commercial"
	RoleRH            Role = "rh"
	RoleProduction    Role = "production"
	RoleFinance       Role = "finance"
	RoleCollaborateur Role = "collaborateur"
)

// Valid reports whether the role is one of the known company roles
func (r Role) Valid() bool {
	switch r {
	case RoleDG, RoleCommercial, RoleRH, RoleProduction, RoleFinance, RoleCollaborateur:
		return true
	}
	return false
}

// Team represents one competing company in a session
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMember binds a user to a team with exactly one company role
type TeamMember struct {
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the authenticated actor supplied by the surrounding
// application. Role and team membership are never taken from here; they are
// re-derived from team membership data on every call.
type Identity struct {
	UserID string `json:"user_id"`
	Admin  bool   `json:"admin"`
}
