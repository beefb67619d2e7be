package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/audit"
	"go-jobboard-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UploadAllower decides whether a file upload from ip/userID may proceed.
type UploadAllower interface {
	AllowUpload(ctx context.Context, ip, userID string) (bool, int, error)
}

// UploadLimitMiddleware throttles multipart requests only; JSON bodies on the
// same route pass through untouched.
func UploadLimitMiddleware(limiter UploadAllower) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Next()
			return
		}

		userID := c.GetString(string(domain.KeyUserID))
		allowed, retryAfter, err := limiter.AllowUpload(c, c.ClientIP(), userID)
		if err != nil {
			logger.Log.Warn("upload limiter degraded", "error", err)
		}
		if !allowed {
			audit.Default().Log(c, audit.Event{
				Type:    audit.EventUploadRejected,
				ActorID: userID,
				Details: map[string]interface{}{"reason": "rate_limited", "endpoint": c.FullPath()},
			})
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, "Too many uploads. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
