package middleware

import (
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing a well-formed incoming one.
// The id and the client IP are stored under plain string keys so that
// gin.Context.Value resolves them when the context is passed down as ctx.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(domain.KeyRequestID, id)
		c.Set("ClientIP", c.ClientIP())
		c.Header(requestIDHeader, id)

		c.Next()
	}
}
