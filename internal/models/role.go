package models

import (
	"encoding/json"
	"fmt"
)

// Role is the single role a user holds.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTeamMember Role = "team_member"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RoleManager, RoleTeamMember}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTeamMember:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects anything that is not a JSON string.
// Unknown role names are accepted here and rejected by validation.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string")
	}
	*r = Role(s)
	return nil
}
