package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.SessionStore = (*RedisStore)(nil)

const revokedPrefix = "session:revoked:"

// RedisStore sesiones revocadas en Redis: compartidas entre instancias, expiran solas con el token.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore construye el store sobre un cliente ya configurado.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Revoke marca tokenID como revocado durante ttl.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

// IsRevoked indica si tokenID fue revocado y aún no expiró.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis is_revoked: %w", err)
	}
	return n > 0, nil
}
