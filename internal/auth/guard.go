package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

// Claims is the session token payload. The user id lives in "_id";
// "sub" is accepted as a fallback.
type Claims struct {
	UserID  string `json:"_id,omitempty"`
	EmailID string `json:"emailId,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session is an authenticated caller.
type Session struct {
	UserID    uuid.UUID
	Role      string
	RawToken  string
	ExpiresAt time.Time
}

// Guard verifies session tokens and consults the revocation registry.
type Guard struct {
	secret   []byte
	registry repository.RevocationRegistry
	parser   *jwt.Parser
	logger   *zap.Logger
}

// NewGuard creates a Guard for HS256 tokens signed with secret.
func NewGuard(secret string, registry repository.RevocationRegistry, logger *zap.Logger) *Guard {
	return &Guard{
		secret:   []byte(secret),
		registry: registry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(5*time.Second),
		),
		logger: logger,
	}
}

// Authenticate returns the caller's session, domain.ErrUnauthorized for a
// missing, invalid, expired or revoked token, or domain.ErrRevocationUnavailable
// when revocation cannot be checked.
func (g *Guard) Authenticate(ctx context.Context, rawToken string) (*Session, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("%w: token is not present", domain.ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := g.parser.ParseWithClaims(rawToken, claims, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}

	revoked, err := g.registry.IsRevoked(ctx, rawToken)
	if err != nil {
		g.logger.Error("Revocation lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrRevocationUnavailable, err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	}

	return &Session{
		UserID:    userID,
		Role:      claims.Role,
		RawToken:  rawToken,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blocks the session's token until it expires.
func (g *Guard) Revoke(ctx context.Context, s *Session) error {
	if err := g.registry.Revoke(ctx, s.RawToken, s.ExpiresAt); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRevocationUnavailable, err)
	}
	return nil
}

// Issue signs a session token. Login lives in the user service; this is used
// by tooling and tests that need a valid session.
func (g *Guard) Issue(userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return raw, nil
}
