package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/auth"
	"github.com/himanshu8github/Neetcode/internal/domain"
)

const (
	// SessionCookie carries the session token issued by the user service.
	SessionCookie = "token"

	sessionKey = "session"
)

// Authenticator resolves a raw session token.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*auth.Session, error)
}

// RequireSession rejects requests without a valid, unrevoked session and stores
// the session on the context for handlers.
func RequireSession(a Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := a.Authenticate(c.Request.Context(), rawToken(c))
		if err != nil {
			if errors.Is(err, domain.ErrRevocationUnavailable) {
				logger.Error("Session check unavailable", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// Session returns the session stored by RequireSession.
func Session(c *gin.Context) (*auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*auth.Session)
	return s, ok
}

// rawToken prefers the session cookie and falls back to a bearer header.
func rawToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
