package domain

import "time"

// Session is the single identity binding held for one session token.
type Session struct {
	User      User      `json:"user"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession binds u with the roles it was granted. The password hash is
// never carried into the session.
func NewSession(u User, now time.Time) *Session {
	u.PasswordHash = ""
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	if len(roles) == 0 {
		roles = []Role{RoleUser}
	}
	u.Roles = append([]Role(nil), roles...)
	return &Session{User: u, Roles: roles, CreatedAt: now}
}

// HasRole reports whether the session carries r.
func (s *Session) HasRole(r Role) bool {
	for _, have := range s.Roles {
		if have == r {
			return true
		}
	}
	return false
}
