package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/auth"
	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository/mock"
)

const secret = "test-secret"

func newTestGuard() (*auth.Guard, *mock.RevocationRegistry) {
	registry := mock.NewRevocationRegistry()
	return auth.NewGuard(secret, registry, zap.NewNop()), registry
}

func TestAuthenticate_ValidToken(t *testing.T) {
	guard, _ := newTestGuard()
	userID := uuid.New()
	raw, err := guard.Issue(userID, "user", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	session, err := guard.Authenticate(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserID != userID {
		t.Errorf("expected user %s, got %s", userID, session.UserID)
	}
	if session.ExpiresAt.Before(time.Now()) {
		t.Error("expected expiry in the future")
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	guard, _ := newTestGuard()
	userID := uuid.New()

	expired, _ := guard.Issue(userID, "user", -time.Hour)
	otherKey, _ := auth.NewGuard("other", mock.NewRevocationRegistry(), zap.NewNop()).Issue(userID, "user", time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{UserID: userID.String()}).SignedString([]byte(secret))
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID:           "64b7f0c2e1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		UserID:           userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"missing":     "",
		"garbage":     "not.a.jwt",
		"expired":     expired,
		"wrong key":   otherKey,
		"no expiry":   noExpiry,
		"bad subject": badSubject,
		"alg none":    noneAlg,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := guard.Authenticate(context.Background(), raw); !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	guard, _ := newTestGuard()
	raw, _ := guard.Issue(uuid.New(), "user", time.Hour)

	session, err := guard.Authenticate(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := guard.Revoke(context.Background(), session); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := guard.Authenticate(context.Background(), raw); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after revoke, got %v", err)
	}
}

func TestAuthenticate_RegistryFailureFailsClosed(t *testing.T) {
	registry := mock.NewRevocationRegistry()
	registry.IsRevokedFn = func(ctx context.Context, raw string) (bool, error) {
		return false, errors.New("connection refused")
	}
	guard := auth.NewGuard(secret, registry, zap.NewNop())
	raw, _ := guard.Issue(uuid.New(), "user", time.Hour)

	_, err := guard.Authenticate(context.Background(), raw)
	if !errors.Is(err, domain.ErrRevocationUnavailable) {
		t.Fatalf("expected ErrRevocationUnavailable, got %v", err)
	}
}

func TestAuthenticate_SubjectFallback(t *testing.T) {
	guard, _ := newTestGuard()
	userID := uuid.New()
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))

	session, err := guard.Authenticate(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserID != userID {
		t.Errorf("expected %s, got %s", userID, session.UserID)
	}
}
