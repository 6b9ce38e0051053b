package middleware

import (
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/model"
	"github.com/gin-gonic/gin"
)

// RequireRole allows the request through when the authenticated user's
// role meets the minimum. Must run after RequireAuth.
func RequireRole(minimum model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		if !user.Role.AtLeast(minimum) {
			abortWithError(c, apperrors.ErrInsufficientRole)
			return
		}

		c.Next()
	}
}
