package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// BodySizeLimit rejects declared bodies above maxBytes with 413 and caps the
// reader for the rest, so binding fails on an oversized chunked body.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": domain.ErrPayloadTooLarge.Error(),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
