package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRevocation_RevokeUntilExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	registry := NewRedisRevocationRegistry(client)
	ctx := context.Background()

	revoked, err := registry.IsRevoked(ctx, "raw.jwt.token")
	if err != nil || revoked {
		t.Fatalf("fresh token: revoked=%v err=%v", revoked, err)
	}

	if err := registry.Revoke(ctx, "raw.jwt.token", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if got, _ := mr.Get("token:raw.jwt.token"); got != "Blocked" {
		t.Errorf("expected Blocked marker, got %q", got)
	}
	revoked, err = registry.IsRevoked(ctx, "raw.jwt.token")
	if err != nil || !revoked {
		t.Fatalf("after revoke: revoked=%v err=%v", revoked, err)
	}

	mr.FastForward(2 * time.Hour)
	revoked, err = registry.IsRevoked(ctx, "raw.jwt.token")
	if err != nil || revoked {
		t.Fatalf("after expiry: revoked=%v err=%v", revoked, err)
	}
}

func TestRevocation_ExpiredTokenIsNotStored(t *testing.T) {
	mr, client := newTestClient(t)
	registry := NewRedisRevocationRegistry(client)

	if err := registry.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if mr.Exists("token:old") {
		t.Error("expired token should not be written")
	}
}

func TestRevocation_RegistryDown(t *testing.T) {
	mr, client := newTestClient(t)
	registry := NewRedisRevocationRegistry(client)
	mr.Close()

	if _, err := registry.IsRevoked(context.Background(), "any"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}

func TestIdempotency_SingleHolder(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRedisIdempotencyStore(client)
	ctx := context.Background()
	id := uuid.New()

	token, ok, err := store.AcquireLock(ctx, id)
	if err != nil || !ok || token == "" {
		t.Fatalf("first acquire: token=%q ok=%v err=%v", token, ok, err)
	}
	if _, ok, err := store.AcquireLock(ctx, id); err != nil || ok {
		t.Fatalf("second acquire should fail: ok=%v err=%v", ok, err)
	}

	if err := store.ReleaseLock(ctx, id, token); err != nil {
		t.Fatalf("ReleaseLock: %v", err)
	}
	if _, ok, err := store.AcquireLock(ctx, id); err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestIdempotency_LockExpires(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRedisIdempotencyStore(client)
	id := uuid.New()

	if _, ok, _ := store.AcquireLock(context.Background(), id); !ok {
		t.Fatal("expected lock")
	}
	mr.FastForward(lockTTL + time.Second)
	if _, ok, _ := store.AcquireLock(context.Background(), id); !ok {
		t.Fatal("expected lock to be available after TTL")
	}
}

func TestIdempotency_ExpiredHolderKeepsNewLock(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRedisIdempotencyStore(client)
	ctx := context.Background()
	id := uuid.New()

	stale, ok, _ := store.AcquireLock(ctx, id)
	if !ok {
		t.Fatal("expected lock")
	}
	mr.FastForward(lockTTL + time.Second)

	current, ok, _ := store.AcquireLock(ctx, id)
	if !ok {
		t.Fatal("expected second worker to take the expired lock")
	}

	if err := store.ReleaseLock(ctx, id, stale); err != nil {
		t.Fatalf("ReleaseLock: %v", err)
	}
	if got, _ := mr.Get(lockKeyPrefix + id.String()); got != current {
		t.Fatalf("lock held by second worker was removed, got %q", got)
	}
	if _, ok, _ := store.AcquireLock(ctx, id); ok {
		t.Fatal("lock must still be held by the second worker")
	}

	if err := store.ReleaseLock(ctx, id, current); err != nil {
		t.Fatalf("ReleaseLock: %v", err)
	}
	if mr.Exists(lockKeyPrefix + id.String()) {
		t.Fatal("expected lock removed by its holder")
	}
}
