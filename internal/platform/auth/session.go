package auth

import "github.com/google/uuid"

// Session identifies the signed-in user for the duration of one request. It is
// created from verified claims and passed explicitly to every service call.
type Session struct {
	UserID uuid.UUID
	Role   Role
	Email  string
	Name   string
}

// NewSession builds a Session from verified claims.
func NewSession(c *Claims) Session {
	return Session{
		UserID: c.UserID,
		Role:   c.Role,
		Email:  c.Email,
		Name:   c.Name,
	}
}

// SystemSession is used by background consumers acting without a user.
func SystemSession() Session {
	return Session{UserID: uuid.Nil, Role: RoleAdmin, Name: "system"}
}

// IsAuthenticated reports whether the session belongs to a user.
func (s Session) IsAuthenticated() bool { return s.Role.IsValid() }

// IsAdmin reports whether the session has the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// IsStaff reports whether the session may check guests in.
func (s Session) IsStaff() bool { return s.Role == RoleStaff || s.Role == RoleAdmin }

// IsOwner reports whether the session belongs to a yacht operator.
func (s Session) IsOwner() bool { return s.Role == RoleOwner }

// HasRole reports whether the session holds one of roles.
func (s Session) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
