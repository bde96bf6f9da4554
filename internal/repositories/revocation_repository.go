package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInvalidTTL = errors.New("revocation ttl must be positive")

// RevocationRepository: denylist jti с TTL. Наличие ключа = токен отозван.
type RevocationRepository interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevocationRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationRepository(client *redis.Client, prefix string) RevocationRepository {
	return &redisRevocationRepository{client: client, prefix: prefix}
}

func (r *redisRevocationRepository) key(jti string) string {
	return r.prefix + strings.TrimSpace(jti)
}

// Revoke: SET key "true" EX ttl. Повторный вызов просто продлевает ключ.
func (r *redisRevocationRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if strings.TrimSpace(jti) == "" {
		return errors.New("jti is required")
	}
	if err := r.client.Set(ctx, r.key(jti), "true", ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

func (r *redisRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis is revoked: %w", err)
	}
	return n > 0, nil
}
