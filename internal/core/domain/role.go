package domain

import "fmt"

// Role is the closed set of actor roles known to the API. Route guards
// compare against these values, so adding a role is a compile-time change.
type Role string

const (
	RoleManager    Role = "manager"
	RoleDispatcher Role = "dispatcher"
	RoleSafety     Role = "safety"
	RoleFinance    Role = "finance"
)

// ParseRole converts a raw string (token claim, stored record) into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager, RoleDispatcher, RoleSafety, RoleFinance:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
