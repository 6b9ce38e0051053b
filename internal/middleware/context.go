package middleware

import (
	"context"
	"time"

	"github.com/aurora-digital/identity/internal/constants"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext seeds every request with tracking metadata: a request
// id (honoring an inbound X-Request-ID), client IP, user agent and the
// start time. Downstream code reads these through pkg/context.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, constants.CtxKeyRequestID, requestID)
		ctx = context.WithValue(ctx, constants.CtxKeyClientIP, c.ClientIP())
		ctx = context.WithValue(ctx, constants.CtxKeyUserAgent, c.GetHeader(constants.HeaderUserAgent))
		ctx = context.WithValue(ctx, constants.CtxKeyStartTime, time.Now())

		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()
	}
}
