package handler

import (
	"net/http"
	"strconv"

	"github.com/aurora-digital/identity/config"
	"github.com/aurora-digital/identity/internal/constants"
	"github.com/aurora-digital/identity/internal/dto"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/middleware"
	"github.com/aurora-digital/identity/internal/service"
	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth      *service.AuthService
	cookieCfg config.CookieConfig
}

func NewAuthHandler(auth *service.AuthService, cookieCfg config.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookieCfg: cookieCfg}
}

// setAuthCookies mirrors the token pair into http-only cookies for
// browser clients. API clients can ignore them and use the JSON body.
func (h *AuthHandler) setAuthCookies(c *gin.Context, tokens *dto.TokenResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.CookieAccessToken, tokens.AccessToken,
		tokens.ExpiresIn, "/", h.cookieCfg.Domain, h.cookieCfg.Secure, true)
	c.SetCookie(constants.CookieRefreshToken, tokens.RefreshToken,
		tokens.RefreshExpiresIn, "/api/v1/auth", h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.CookieAccessToken, "", -1, "/", h.cookieCfg.Domain, h.cookieCfg.Secure, true)
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/api/v1/auth", h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req,
		c.GetHeader(constants.HeaderUserAgent), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, resp)
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /auth/refresh. The refresh token comes from the
// body or, for browser clients, the http-only cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(constants.CookieRefreshToken)
	}
	if token == "" {
		respondError(c, apperrors.ErrInvalidToken)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearAuthCookies(c)
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, resp)
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	err := h.auth.Logout(ctx, user.ID, ctxutil.GetTokenID(ctx), middleware.AccessToken(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("logged out"))
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	if err := h.auth.ChangePassword(ctx, user.ID, ctxutil.GetTokenID(ctx), c.ClientIP(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("password changed"))
}

// RequestPasswordReset handles POST /auth/password-reset/request. The
// response is identical whether or not the address exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("if the address is registered, a reset email has been sent"))
}

// ConfirmPasswordReset handles POST /auth/password-reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.auth.ConfirmPasswordReset(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("password reset, please log in again"))
}

// VerifyEmail handles GET /auth/verify-email?token=... (the emailed
// link) and POST /auth/verify-email with a JSON body.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var req dto.EmailVerificationConfirm
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
		token = req.Token
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("email verified"))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// ListSessions handles GET /auth/sessions.
func (h *AuthHandler) ListSessions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	sessions, err := h.auth.ListSessions(ctx, user.ID, ctxutil.GetTokenID(ctx))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: sessions})
}

// RevokeSession handles DELETE /auth/sessions/:id.
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperrors.ErrInvalidInput)
		return
	}

	if err := h.auth.RevokeSession(c.Request.Context(), user.ID, uint(sessionID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("session revoked"))
}
