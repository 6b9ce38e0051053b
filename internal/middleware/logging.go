package middleware

import (
	"net/http"
	"time"

	"github.com/aurora-digital/identity/internal/constants"
	"github.com/aurora-digital/identity/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request after it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
			c.ClientIP(),
			c.GetHeader(constants.HeaderUserAgent),
		)
	}
}

// Recovery converts panics into a 500 response and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.LogPanic(recovered)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					constants.BuildErrorResponse("INTERNAL_ERROR", constants.MsgInternalError, nil))
			}
		}()
		c.Next()
	}
}
