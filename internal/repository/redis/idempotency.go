package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/himanshu8github/Neetcode/internal/repository"
)

var _ repository.IdempotencyStore = (*redisIdempotency)(nil)

const (
	lockKeyPrefix = "neetcode:judge:lock:"
	// lockTTL outlives one judging budget so a crashed worker cannot wedge a submission forever.
	lockTTL = 5 * time.Minute
)

// releaseScript deletes the lock only while it still carries the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisIdempotency struct {
	client goredis.UniversalClient
}

// NewRedisIdempotencyStore creates a Redis-backed per-submission lock.
func NewRedisIdempotencyStore(client goredis.UniversalClient) repository.IdempotencyStore {
	return &redisIdempotency{client: client}
}

// AcquireLock uses Redis SETNX with a fresh holder token.
func (r *redisIdempotency) AcquireLock(ctx context.Context, submissionID uuid.UUID) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, lockKeyPrefix+submissionID.String(), token, lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis: acquire lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseLock deletes the lock if token still owns it.
func (r *redisIdempotency) ReleaseLock(ctx context.Context, submissionID uuid.UUID, token string) error {
	keys := []string{lockKeyPrefix + submissionID.String()}
	if err := releaseScript.Run(ctx, r.client, keys, token).Err(); err != nil {
		return fmt.Errorf("redis: release lock: %w", err)
	}
	return nil
}
