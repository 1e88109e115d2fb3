package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"todo-web/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "todo_web"
	scanBatch = 100
)

// RedisBackend stores sessions as JSON blobs with a TTL.
// Implements domain.SessionBackend.
type RedisBackend struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl, logger: logger}
}

// DialRedis parses url, connects and pings.
func DialRedis(ctx context.Context, url string, ttl time.Duration, logger *slog.Logger) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
	}

	logger.InfoContext(ctx, "connected to redis session backend", "addr", opts.Addr, "db", opts.DB)
	return NewRedisBackend(client, ttl, logger), nil
}

func (r *RedisBackend) key(sessionID string) string {
	return keyPrefix + ":session:" + sessionID
}

// Load fetches and decodes the binding under sessionID.
func (r *RedisBackend) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.WarnContext(ctx, "dropping undecodable session", "error", err)
		_ = r.client.Del(ctx, r.key(sessionID)).Err()
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

// Save writes session under sessionID, resetting its TTL.
func (r *RedisBackend) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
	}
	return nil
}

// Delete executes a DEL for sessionID. Missing keys are not an error.
func (r *RedisBackend) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
	}
	return nil
}

// Purge destroys all sessions under the key prefix.
func (r *RedisBackend) Purge(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	pattern := keyPrefix + ":session:*"

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
		}

		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.InfoContext(ctx, "purged sessions", "count", removed)
	return removed, nil
}

// Close releases the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}

// Ping reports whether redis is reachable.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
