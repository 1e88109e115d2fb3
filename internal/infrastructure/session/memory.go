package session

import (
	"context"
	"sync"
	"time"

	"todo-web/internal/domain"
)

// entry is one stored binding with its expiry.
type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryBackend is a process-local session backend with TTL expiry.
// Implements domain.SessionBackend.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryBackend creates a backend whose entries live for ttl.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	b := &MemoryBackend{
		entries: make(map[string]*entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go b.cleanupLoop()
	return b
}

// Load returns a copy of the binding stored under sessionID.
func (b *MemoryBackend) Load(_ context.Context, sessionID string) (*domain.Session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, found := b.entries[sessionID]
	if !found || time.Now().After(e.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	s := e.session
	s.Roles = append([]domain.Role(nil), e.session.Roles...)
	return &s, nil
}

// Save stores a copy of session, replacing any prior binding.
func (b *MemoryBackend) Save(_ context.Context, sessionID string, session *domain.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := *session
	s.Roles = append([]domain.Role(nil), session.Roles...)
	b.entries[sessionID] = &entry{
		session:   s,
		expiresAt: time.Now().Add(b.ttl),
	}
	return nil
}

// Delete removes sessionID. Missing ids are ignored.
func (b *MemoryBackend) Delete(_ context.Context, sessionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, sessionID)
	return nil
}

// Purge drops every binding and returns how many were removed.
func (b *MemoryBackend) Purge(_ context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.entries)
	b.entries = make(map[string]*entry)
	return n, nil
}

// Close stops the cleanup loop.
func (b *MemoryBackend) Close() error {
	b.once.Do(func() { close(b.stop) })
	return nil
}

// cleanup removes expired entries.
func (b *MemoryBackend) cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for id, e := range b.entries {
		if now.After(e.expiresAt) {
			delete(b.entries, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries until Close.
func (b *MemoryBackend) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.cleanup()
		case <-b.stop:
			return
		}
	}
}
