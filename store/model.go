package store

import "time"

// Role classifies an account for authorization checks.
type Role string

const (
	// RoleStandard is the default role assigned to new accounts.
	RoleStandard Role = "standard"
	// RoleElevated grants access to administrative operations.
	RoleElevated Role = "elevated"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleElevated
}

// Account is a stored account record. Groups holds the ids of every group
// the account belongs to and must mirror the Users list of those groups.
type Account struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Role         Role       `json:"role"`
	Groups       []string   `json:"groups"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Group is a stored group record. Users holds the ids of every member
// account and must mirror the Groups list of those accounts.
type Group struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Users     []string   `json:"users"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// HasGroup reports whether the account already references the group id.
func (a *Account) HasGroup(groupID string) bool {
	return contains(a.Groups, groupID)
}

// AddGroup appends the group id if it is not already present.
func (a *Account) AddGroup(groupID string) {
	if !contains(a.Groups, groupID) {
		a.Groups = append(a.Groups, groupID)
	}
}

// RemoveGroup drops every occurrence of the group id.
func (a *Account) RemoveGroup(groupID string) {
	a.Groups = without(a.Groups, groupID)
}

// HasUser reports whether the group already references the account id.
func (g *Group) HasUser(accountID string) bool {
	return contains(g.Users, accountID)
}

// AddUser appends the account id if it is not already present.
func (g *Group) AddUser(accountID string) {
	if !contains(g.Users, accountID) {
		g.Users = append(g.Users, accountID)
	}
}

// RemoveUser drops every occurrence of the account id.
func (g *Group) RemoveUser(accountID string) {
	g.Users = without(g.Users, accountID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
