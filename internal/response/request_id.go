package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// maxRequestIDLength bounds caller-provided IDs so a hostile header cannot
// bloat logs or response metadata.
const maxRequestIDLength = 64

// RequestIDMiddleware tags every request with an ID and echoes it in the
// X-Request-ID response header. Callers may supply their own (the frontend
// reuses one ID across retries of the same action); anything absent or
// oversized is replaced with a fresh UUID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" || len(reqID) > maxRequestIDLength {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// GetRequestID returns the request's ID, or an empty string outside the
// middleware.
func GetRequestID(c *gin.Context) string {
	reqID, _ := c.Get(ContextKeyRequestID)
	id, _ := reqID.(string)
	return id
}
