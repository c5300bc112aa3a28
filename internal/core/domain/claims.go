package domain

import "time"

// Claims is the verified content of a session token.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the claims carry the admin role.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
