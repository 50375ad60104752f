package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key (and header name suffix) for the
// per-request correlation id.
const RequestIDKey = "request_id"

// RequestID assigns every request a correlation id, honoring one supplied
// by the client in X-Request-ID. The id is echoed back in the response and
// attached to every log line.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
