package middleware

import (
	"context"
	"strings"

	"github.com/aurora-digital/identity/internal/constants"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/model"
	"github.com/aurora-digital/identity/internal/service"
	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// gin context keys for handler access to the authenticated identity.
const (
	GinKeyUser        = "auth_user"
	GinKeyAccessToken = "auth_access_token"
)

// extractToken pulls the access token from the Authorization header,
// falling back to the http-only cookie for browser clients.
func extractToken(c *gin.Context) string {
	header := c.GetHeader(constants.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	if cookie, err := c.Cookie(constants.CookieAccessToken); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth authenticates the request and stores the user, role and
// token id for downstream handlers. Requests without a valid, live
// access token are rejected.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = ctxutil.WithUserID(ctx, user.ID)
		ctx = ctxutil.WithTokenID(ctx, claims.ID)
		ctx = context.WithValue(ctx, constants.CtxKeyUserRole, string(user.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Set(GinKeyUser, user)
		c.Set(GinKeyAccessToken, token)

		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, ok := c.Get(GinKeyUser)
	if !ok {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

// AccessToken returns the raw access token of the current request.
func AccessToken(c *gin.Context) string {
	return c.GetString(GinKeyAccessToken)
}

func abortWithError(c *gin.Context, err error) {
	domainErr := apperrors.GetDomainError(err)
	if domainErr == nil {
		domainErr = apperrors.ErrUnauthorized
	}
	c.AbortWithStatusJSON(apperrors.ToHTTPStatus(domainErr),
		constants.BuildErrorResponse(domainErr.Code, domainErr.Message, nil))
}
