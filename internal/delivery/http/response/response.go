package response

import (
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{Success: true, Message: message, Data: data, RequestID: requestID(c)})
}

// Error writes a failure envelope; details go to the "error" field.
func Error(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, Response{Message: message, Error: details, RequestID: requestID(c)})
}

func requestID(c *gin.Context) string {
	return c.GetString(domain.KeyRequestID)
}
