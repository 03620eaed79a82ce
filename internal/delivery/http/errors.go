package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// statusFor maps a domain error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnsupportedLanguage),
		errors.Is(err, domain.ErrEmptySourceCode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrProblemNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoTestCases):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrEngineUnavailable),
		errors.Is(err, domain.ErrRevocationUnavailable),
		errors.Is(err, domain.ErrDatabaseUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrJudgingTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": "..."}. Server-side failures are logged
// and their details are not echoed to the client.
func writeError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	}

	body := err.Error()
	switch status {
	case http.StatusInternalServerError:
		body = "Internal server error"
	case http.StatusServiceUnavailable:
		body = "Service temporarily unavailable"
		if errors.Is(err, domain.ErrEngineUnavailable) {
			body = domain.ErrEngineUnavailable.Error()
		}
	case http.StatusGatewayTimeout:
		body = domain.ErrJudgingTimeout.Error()
	}
	c.JSON(status, gin.H{"error": body})
}
