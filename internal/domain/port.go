package domain

import (
	"context"
	"time"
)

// SessionRepository is the request-scoped view of the session store.
// It resolves the session token from ctx, so callers never see it.
type SessionRepository interface {
	// Get returns the binding for the current request. Absence is not an error.
	Get(ctx context.Context) (*Session, bool)
	// Set replaces the binding for the current request.
	Set(ctx context.Context, session *Session) error
	// Clear removes the binding. Clearing an empty session is a no-op.
	Clear(ctx context.Context) error
}

// SessionBackend owns the token -> session mapping.
type SessionBackend interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, sessionID string, session *Session) error
	Delete(ctx context.Context, sessionID string) error
	Purge(ctx context.Context) (int, error)
}

// SessionTokenCodec converts session ids to and from the cookie wire value.
type SessionTokenCodec interface {
	Encode(sessionID string) (string, error)
	Decode(token string) (string, error)
	TTL() time.Duration
}

// UserRepository persists registered users.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// PasswordHasher hashes and verifies raw passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// TodoRepository persists todo items scoped to their owner.
type TodoRepository interface {
	ListByOwner(ctx context.Context, owner int64) ([]Todo, error)
	Create(ctx context.Context, todo *Todo) error
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, owner, id int64) error
	Get(ctx context.Context, owner, id int64) (*Todo, error)
}
