package middleware

import (
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID reuses an inbound X-Request-ID or generates one, and attaches it
// with the client IP to the request context for the audit trail.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		ctx := domain.WithRequestMeta(c.Request.Context(), domain.RequestMeta{
			RequestID: rid,
			IPAddress: c.ClientIP(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
