package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/auth"
	"github.com/himanshu8github/Neetcode/internal/delivery/http/middleware"
	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/usecase"
)

// SessionRevoker invalidates a session before its expiry.
type SessionRevoker interface {
	Revoke(ctx context.Context, s *auth.Session) error
}

// UserHandler serves the caller's solved set and logout.
type UserHandler struct {
	solvedUC *usecase.SolvedProblemsUsecase
	revoker  SessionRevoker
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(solvedUC *usecase.SolvedProblemsUsecase, revoker SessionRevoker, logger *zap.Logger) *UserHandler {
	return &UserHandler{solvedUC: solvedUC, revoker: revoker, logger: logger}
}

// Solved handles GET /problem/problemSolvedByUser
func (h *UserHandler) Solved(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}

	solved, err := h.solvedUC.Execute(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "List solved problems failed", err)
		return
	}
	c.JSON(http.StatusOK, solved)
}

// Logout handles POST /user/logout
func (h *UserHandler) Logout(c *gin.Context) {
	session, ok := middleware.Session(c)
	if !ok {
		writeError(c, h.logger, "Missing session", domain.ErrUnauthorized)
		return
	}

	if err := h.revoker.Revoke(c.Request.Context(), session); err != nil {
		writeError(c, h.logger, "Logout failed", err)
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	h.logger.Info("User logged out", zap.String("user_id", session.UserID.String()))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
