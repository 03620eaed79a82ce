package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/himanshu8github/Neetcode/internal/repository"
)

var _ repository.RevocationRegistry = (*redisRevocation)(nil)

const (
	revokedKeyPrefix = "token:"
	revokedValue     = "Blocked"
)

type redisRevocation struct {
	client goredis.UniversalClient
}

// NewRedisRevocationRegistry stores revoked session tokens as "token:<raw>"
// keys that expire together with the token.
func NewRedisRevocationRegistry(client goredis.UniversalClient) repository.RevocationRegistry {
	return &redisRevocation{client: client}
}

func (r *redisRevocation) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+rawToken).Result()
	if err != nil {
		return false, fmt.Errorf("redis: check revocation: %w", err)
	}
	return n > 0, nil
}

// Revoke is a no-op for tokens that have already expired.
func (r *redisRevocation) Revoke(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if !expiresAt.After(time.Now()) {
		return nil
	}
	key := revokedKeyPrefix + rawToken
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, key, revokedValue, 0)
		pipe.ExpireAt(ctx, key, expiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: revoke token: %w", err)
	}
	return nil
}
