package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Session records carry a TTL
// roughly matching the platform's session lifetime; device records are
// durable and never expire.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string, sessionTTL time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:     client,
		sessionTTL: sessionTTL,
	}, nil
}

func (r *RedisStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (r *RedisStore) deviceKey(deviceID string) string {
	return fmt.Sprintf("device:%s", deviceID)
}

// LoadSession loads a session record from Redis.
func (r *RedisStore) LoadSession(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}
	return &session, nil
}

// SaveSession saves a session record with the session TTL. Saving
// refreshes the TTL, so an active conversation never expires mid-turn.
func (r *RedisStore) SaveSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.sessionKey(session.SessionID), data, r.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

// ClearSession removes a session record.
func (r *RedisStore) ClearSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// LoadDevice loads the durable record for a device.
func (r *RedisStore) LoadDevice(ctx context.Context, deviceID string) (*Durable, error) {
	data, err := r.client.Get(ctx, r.deviceKey(deviceID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load device record from Redis: %w", err)
	}

	var durable Durable
	if err := json.Unmarshal([]byte(data), &durable); err != nil {
		return nil, fmt.Errorf("failed to parse device record: %w", err)
	}
	return &durable, nil
}

// SaveDevice saves the durable record for a device without expiry.
func (r *RedisStore) SaveDevice(ctx context.Context, deviceID string, durable *Durable) error {
	data, err := json.Marshal(durable)
	if err != nil {
		return fmt.Errorf("failed to marshal device record: %w", err)
	}

	if err := r.client.Set(ctx, r.deviceKey(deviceID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save device record to Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ping verifies the Redis connection is alive.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
