package domain

import "time"

// Role is an authority label checked by the access-control stage.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a registered identity. The session layer only ever reads it.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
}
