package domain

import "errors"

// Authentication errors.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrAccessDenied     = errors.New("access denied")
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrUserExists       = errors.New("username already taken")
	ErrRateLimited      = errors.New("rate limit exceeded")
)

// Session errors.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionTokenBad    = errors.New("invalid session token")
	ErrSessionUnavailable = errors.New("session store unavailable")
	ErrNoSessionContext   = errors.New("no session context on request")
)

// Todo errors.
var (
	ErrTodoNotFound = errors.New("todo not found")
)

// Storage errors.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
)
