package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/saipabi/server/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// RedisSessionCache implements domain.SessionCache on Redis. Expiry is
// cache-native: records are written with a TTL and Redis evicts them; the
// caller never re-checks expiry. Cache faults are logged and reported as
// false/nil results, never propagated.
type RedisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a RedisSessionCache with the given record TTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) *RedisSessionCache {
	return &RedisSessionCache{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// GenerateToken returns 32 cryptographically random bytes, hex-encoded.
// The token is used only as a cache key and must not be predictable.
func (c *RedisSessionCache) GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Store writes {userId, createdAt} under session:<token> with the
// configured TTL, overwriting any existing entry.
func (c *RedisSessionCache) Store(ctx context.Context, token, userID string) bool {
	record := domain.SessionRecord{
		UserID:    userID,
		CreatedAt: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		log.Error().Err(err).Msg("Marshal session record failed")
		return false
	}

	if err := c.client.Set(ctx, sessionKey(token), data, c.ttl).Err(); err != nil {
		log.Error().Err(err).Msg("Redis store session error")
		return false
	}

	return true
}

// Get returns the stored record, or nil when the token is absent, expired,
// or the cache is unavailable.
func (c *RedisSessionCache) Get(ctx context.Context, token string) *domain.SessionRecord {
	data, err := c.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Msg("Redis get session error")
		}
		return nil
	}

	var record domain.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Error().Err(err).Msg("Unmarshal session record failed")
		return nil
	}

	return &record
}

// Delete removes the record immediately regardless of remaining TTL.
func (c *RedisSessionCache) Delete(ctx context.Context, token string) bool {
	if err := c.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		log.Error().Err(err).Msg("Redis delete session error")
		return false
	}
	return true
}

// Verify returns the user ID bound to the token. Absence is a lookup
// outcome, not a fault.
func (c *RedisSessionCache) Verify(ctx context.Context, token string) (string, bool) {
	record := c.Get(ctx, token)
	if record == nil || record.UserID == "" {
		return "", false
	}
	return record.UserID, true
}
