package auth

import "errors"

// Role represents an authorisation tier carried in the token.
type Role string

const (
	// RoleViewer can read robots, capabilities and the command log.
	RoleViewer Role = "viewer"

	// RoleOperator can additionally run operations on robots.
	RoleOperator Role = "operator"

	// RoleAdmin can additionally add, change and remove robots.
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of roles a token may carry.
var ValidRoles = []Role{RoleViewer, RoleOperator, RoleAdmin}

// IsValidRole returns true if r is one of ValidRoles.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Sentinel errors.
var (
	ErrTokenInvalid = errors.New("auth: invalid token")
	ErrNoSecret     = errors.New("auth: signing secret is empty")
	ErrInvalidRole  = errors.New("auth: invalid role")
	ErrForbidden    = errors.New("auth: insufficient permissions")
)
