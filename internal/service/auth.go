package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aurora-digital/identity/config"
	"github.com/aurora-digital/identity/internal/constants"
	"github.com/aurora-digital/identity/internal/dto"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/model"
	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/aurora-digital/identity/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store interfaces are declared on the consumer side so the service can
// be tested against in-memory fakes.

type userStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	RecordLogin(ctx context.Context, id uint) error
	SetEmailVerified(ctx context.Context, id uint) error
}

type sessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	FindActiveByTokenID(ctx context.Context, tokenID string) (*model.Session, error)
	FindActiveByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error)
	ListActive(ctx context.Context, userID uint) ([]model.Session, error)
	Rotate(ctx context.Context, sessionID uint, oldTokenID, newTokenID, newRefreshToken string, newExpiry time.Time) error
	MarkExpired(ctx context.Context, sessionID uint) error
	Revoke(ctx context.Context, sessionID uint) error
	RevokeAllForUser(ctx context.Context, userID uint, excludeTokenID string) (int64, error)
	TouchLastActive(ctx context.Context, tokenID string) error
}

type blacklistStore interface {
	Add(ctx context.Context, token string, kind model.TokenKind, userID *uint, expiresAt time.Time, reason string) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

type notifier interface {
	SendEmailVerification(ctx context.Context, email, name, token string, ttl time.Duration)
	SendPasswordReset(ctx context.Context, email, name, token string, ttl time.Duration)
	SendPasswordChanged(ctx context.Context, email, name, ipAddress, platform string)
	SendWelcome(ctx context.Context, email, name string)
}

// AuthService orchestrates registration, login, token refresh and the
// revocation flows on top of the stores and the token codec.
type AuthService struct {
	users     userStore
	sessions  sessionStore
	blacklist blacklistStore
	tokens    *TokenService
	notifier  notifier
	jwtCfg    config.JWTConfig
}

func NewAuthService(
	users userStore,
	sessions sessionStore,
	blacklist blacklistStore,
	tokens *TokenService,
	notifier notifier,
	jwtCfg config.JWTConfig,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		blacklist: blacklist,
		tokens:    tokens,
		notifier:  notifier,
		jwtCfg:    jwtCfg,
	}
}

// Register creates a new account in pending_verification status and
// dispatches a verification email. Email and username conflicts map to
// distinct errors so clients can point at the right field.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	if !req.TermsAccepted {
		return nil, apperrors.ErrTermsNotAccepted
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.Username != nil {
		if _, err := s.users.GetByUsername(ctx, *req.Username); err == nil {
			return nil, apperrors.ErrUsernameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: hashed,
		Role:     model.RoleUser,
		Status:   model.StatusPendingVerification,
		IsActive: true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.dispatchVerificationEmail(ctx, user)

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", user.ID).
		String("email", user.Email).
		Log()

	return &dto.RegisterResponse{
		Message:              "registration successful, please verify your email",
		UserID:               user.ID,
		Email:                user.Email,
		RequiresVerification: true,
	}, nil
}

func (s *AuthService) dispatchVerificationEmail(ctx context.Context, user *model.User) {
	jti, err := NewTokenID()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate verification token id").Err(err).Log()
		return
	}

	token, _, err := s.tokens.Issue(user.ID, model.TokenEmailVerification, jti, constants.EmailVerificationTTL)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue verification token").Err(err).Log()
		return
	}

	s.notifier.SendEmailVerification(ctx, user.Email, user.FullName, token, constants.EmailVerificationTTL)
}

// Login authenticates credentials and opens a new session. Unknown email
// and wrong password produce the same error and take comparable time.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, userAgent, ipAddress string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			checkPassword(dummyPasswordHash, req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, req.Password) {
		logger.WarnWithContext(ctx, "Login failed, wrong password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive || user.Status == model.StatusSuspended || user.Status == model.StatusInactive {
		return nil, apperrors.ErrAccountInactive
	}

	tokens, session, err := s.openSession(ctx, user, req, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to record login").
			Uint("user_id", user.ID).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		Uint("session_id", session.ID).
		String("platform", string(session.Platform)).
		Bool("remember_me", req.RememberMe).
		Log()

	return tokens, nil
}

func (s *AuthService) openSession(ctx context.Context, user *model.User, req dto.LoginRequest, userAgent, ipAddress string) (*dto.TokenResponse, *model.Session, error) {
	jti, err := NewTokenID()
	if err != nil {
		return nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshTTL := s.refreshTTL(req.RememberMe)

	accessToken, _, err := s.tokens.Issue(user.ID, model.TokenAccess, jti, s.jwtCfg.AccessTokenTTL)
	if err != nil {
		return nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	refreshToken, refreshExpiry, err := s.tokens.Issue(user.ID, model.TokenRefresh, jti, refreshTTL)
	if err != nil {
		return nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if len(userAgent) > constants.MaxUserAgentLen {
		userAgent = userAgent[:constants.MaxUserAgentLen]
	}

	session := &model.Session{
		UserID:       user.ID,
		TokenID:      jti,
		RefreshToken: refreshToken,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
		Platform:     model.DetectPlatform(userAgent),
		DeviceInfo:   encodeDeviceInfo(req.DeviceID, req.DeviceName),
		Status:       model.SessionActive,
		RememberMe:   req.RememberMe,
		LastActive:   time.Now().UTC(),
		ExpiresAt:    refreshExpiry,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int(s.jwtCfg.AccessTokenTTL.Seconds()),
		RefreshExpiresIn: int(refreshTTL.Seconds()),
		User:             dto.NewUserResponse(user),
	}, session, nil
}

func encodeDeviceInfo(deviceID, deviceName string) datatypes.JSON {
	if deviceID == "" && deviceName == "" {
		return nil
	}
	info := map[string]string{}
	if deviceID != "" {
		info["device_id"] = deviceID
	}
	if deviceName != "" {
		info["device_name"] = deviceName
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func (s *AuthService) refreshTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return s.jwtCfg.RememberMeTokenTTL
	}
	return s.jwtCfg.RefreshTokenTTL
}

// Refresh rotates the token pair of a session. The old refresh token is
// blacklisted before the session row changes, so a crash between the two
// writes can only leave a dead token blacklisted, never a live one
// usable twice. Rotation itself is a compare-and-swap; when two refreshes
// race, exactly one wins.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	claims, err := s.tokens.Verify(refreshToken, model.TokenRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if revoked {
		logger.WarnWithContext(ctx, "Refresh attempted with revoked token").
			String("token_id", claims.ID).
			Log()
		return nil, apperrors.ErrTokenRevoked
	}

	session, err := s.sessions.FindActiveByTokenID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := time.Now().UTC()
	if session.ExpiresAt.Before(now) {
		if err := s.sessions.MarkExpired(ctx, session.ID); err != nil {
			logger.WarnWithContext(ctx, "Failed to mark session expired").
				Uint("session_id", session.ID).
				Err(err).
				Log()
		}
		return nil, apperrors.ErrSessionExpired
	}

	claimsUserID, err := claims.UserID()
	if err != nil || claimsUserID != session.UserID {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !user.IsActive || user.Status == model.StatusSuspended || user.Status == model.StatusInactive {
		return nil, apperrors.ErrAccountInactive
	}

	newJTI, err := NewTokenID()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Session keeps the remember-me choice made at login; rotation
	// re-derives the expiry window from it.
	refreshTTL := s.refreshTTL(session.RememberMe)

	newAccess, _, err := s.tokens.Issue(user.ID, model.TokenAccess, newJTI, s.jwtCfg.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	newRefresh, newExpiry, err := s.tokens.Issue(user.ID, model.TokenRefresh, newJTI, refreshTTL)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.blacklist.Add(ctx, refreshToken, model.TokenRefresh, &session.UserID, claims.ExpiresAt.Time, "rotation"); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.sessions.Rotate(ctx, session.ID, claims.ID, newJTI, newRefresh, newExpiry); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Session refreshed").
		Uint("user_id", user.ID).
		Uint("session_id", session.ID).
		Log()

	return &dto.TokenResponse{
		AccessToken:      newAccess,
		RefreshToken:     newRefresh,
		TokenType:        "Bearer",
		ExpiresIn:        int(s.jwtCfg.AccessTokenTTL.Seconds()),
		RefreshExpiresIn: int(refreshTTL.Seconds()),
		User:             dto.NewUserResponse(user),
	}, nil
}

// Logout terminates the current session, a session named by its refresh
// token, or every session of the user. Logging out an already dead
// session succeeds silently.
func (s *AuthService) Logout(ctx context.Context, userID uint, currentTokenID, currentAccessToken string, req dto.LogoutRequest) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if req.LogoutAll {
		return s.logoutAll(ctx, userID, currentAccessToken)
	}

	var session *model.Session
	var err error
	if req.RefreshToken != "" {
		// Resolved by raw token value: a malformed, expired or already
		// rotated token matches nothing and the logout is a no-op.
		session, err = s.sessions.FindActiveByRefreshToken(ctx, req.RefreshToken)
	} else {
		session, err = s.sessions.FindActiveByTokenID(ctx, currentTokenID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if session.UserID != userID {
		return apperrors.ErrUnauthorized
	}

	if err := s.blacklist.Add(ctx, session.RefreshToken, model.TokenRefresh, &userID, session.ExpiresAt, "logout"); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if session.TokenID == currentTokenID && currentAccessToken != "" {
		s.blacklistAccessToken(ctx, currentAccessToken, userID, "logout")
	}

	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Uint("session_id", session.ID).
		Log()

	return nil
}

func (s *AuthService) logoutAll(ctx context.Context, userID uint, currentAccessToken string) error {
	sessions, err := s.sessions.ListActive(ctx, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	for i := range sessions {
		if err := s.blacklist.Add(ctx, sessions[i].RefreshToken, model.TokenRefresh, &userID, sessions[i].ExpiresAt, "logout_all"); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}
	if currentAccessToken != "" {
		s.blacklistAccessToken(ctx, currentAccessToken, userID, "logout_all")
	}

	revoked, err := s.sessions.RevokeAllForUser(ctx, userID, "")
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "All sessions logged out").
		Uint("user_id", userID).
		Int64("revoked_count", revoked).
		Log()

	return nil
}

// blacklistAccessToken is best-effort: access tokens self-expire within
// minutes, the session and refresh token are already dead.
func (s *AuthService) blacklistAccessToken(ctx context.Context, token string, userID uint, reason string) {
	expiresAt := time.Now().UTC().Add(s.jwtCfg.AccessTokenTTL)
	if claims, err := s.tokens.Verify(token, model.TokenAccess); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.blacklist.Add(ctx, token, model.TokenAccess, &userID, expiresAt, reason); err != nil {
		logger.WarnWithContext(ctx, "Failed to blacklist access token").
			Uint("user_id", userID).
			Err(err).
			Log()
	}
}

// ChangePassword verifies the old password, replaces the hash and signs
// out every other device. The session performing the change survives.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentTokenID, ipAddress string, req dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangePassword")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, req.OldPassword) {
		return apperrors.ErrIncorrectPassword
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.revokeOtherSessions(ctx, userID, currentTokenID, "password_change"); err != nil {
		return err
	}

	platform := string(model.DetectPlatform(ctxutil.GetUserAgent(ctx)))
	s.notifier.SendPasswordChanged(ctx, user.Email, user.FullName, ipAddress, platform)

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", userID).
		Log()

	return nil
}

func (s *AuthService) revokeOtherSessions(ctx context.Context, userID uint, keepTokenID, reason string) error {
	sessions, err := s.sessions.ListActive(ctx, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	for i := range sessions {
		if sessions[i].TokenID == keepTokenID {
			continue
		}
		if err := s.blacklist.Add(ctx, sessions[i].RefreshToken, model.TokenRefresh, &userID, sessions[i].ExpiresAt, reason); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	if _, err := s.sessions.RevokeAllForUser(ctx, userID, keepTokenID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

// RequestPasswordReset issues a single-use reset token and dispatches it
// by email. The response never reveals whether the address is known.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "RequestPasswordReset")

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Password reset requested for unknown email").Log()
			return nil
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	jti, err := NewTokenID()
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	token, _, err := s.tokens.Issue(user.ID, model.TokenPasswordReset, jti, constants.PasswordResetTTL)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.notifier.SendPasswordReset(ctx, user.Email, user.FullName, token, constants.PasswordResetTTL)

	logger.InfoWithContext(ctx, "Password reset requested").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ConfirmPasswordReset consumes a reset token, replaces the password and
// signs the user out everywhere. The token is blacklisted before any
// session state changes so it can never be replayed.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req dto.PasswordResetConfirm) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ConfirmPasswordReset")

	claims, err := s.tokens.Verify(req.Token, model.TokenPasswordReset)
	if err != nil {
		return err
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, req.Token)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if revoked {
		return apperrors.ErrTokenRevoked
	}

	userID, err := claims.UserID()
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.blacklist.Add(ctx, req.Token, model.TokenPasswordReset, &userID, claims.ExpiresAt.Time, "used"); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.revokeOtherSessions(ctx, userID, "", "password_reset"); err != nil {
		return err
	}

	logger.InfoWithContext(ctx, "Password reset completed").
		Uint("user_id", userID).
		Log()

	return nil
}

// VerifyEmail consumes a verification token, marks the address verified
// and promotes pending accounts to active.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "VerifyEmail")

	claims, err := s.tokens.Verify(token, model.TokenEmailVerification)
	if err != nil {
		return err
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if revoked {
		return apperrors.ErrTokenRevoked
	}

	userID, err := claims.UserID()
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if err := s.blacklist.Add(ctx, token, model.TokenEmailVerification, &userID, claims.ExpiresAt.Time, "used"); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.SetEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		s.notifier.SendWelcome(ctx, user.Email, user.FullName)
	}

	logger.InfoWithContext(ctx, "Email verified").
		Uint("user_id", userID).
		Log()

	return nil
}

// ListSessions returns the user's active sessions with the one backing
// the current request flagged.
func (s *AuthService) ListSessions(ctx context.Context, userID uint, currentTokenID string) ([]dto.SessionResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListSessions")

	sessions, err := s.sessions.ListActive(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, dto.NewSessionResponse(&sessions[i], currentTokenID))
	}
	return responses, nil
}

// RevokeSession terminates one of the user's own sessions by id.
func (s *AuthService) RevokeSession(ctx context.Context, userID, sessionID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "RevokeSession")

	sessions, err := s.sessions.ListActive(ctx, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		if err := s.blacklist.Add(ctx, sessions[i].RefreshToken, model.TokenRefresh, &userID, sessions[i].ExpiresAt, "revoked_by_user"); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if err := s.sessions.Revoke(ctx, sessions[i].ID); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		logger.InfoWithContext(ctx, "Session revoked by user").
			Uint("user_id", userID).
			Uint("session_id", sessionID).
			Log()
		return nil
	}

	return apperrors.ErrSessionNotFound
}

// VerifyAccess validates an access token for the auth middleware:
// signature, expiry, kind and blacklist.
func (s *AuthService) VerifyAccess(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.tokens.Verify(token, model.TokenAccess)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	return claims, nil
}

// Authenticate resolves an access token to its user. The claims carry
// no role, so authorization always reads the current role and status
// from the store; demotions and suspensions take effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, *TokenClaims, error) {
	claims, err := s.VerifyAccess(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUnauthorized
		}
		return nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !user.IsActive || user.Status == model.StatusSuspended || user.Status == model.StatusInactive {
		return nil, nil, apperrors.ErrAccountInactive
	}

	// Best-effort: session listing orders by last_active, so every
	// authenticated request bumps the session behind the token.
	if err := s.sessions.TouchLastActive(ctx, claims.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to touch session activity").
			String("token_id", claims.ID).
			Err(err).
			Log()
	}

	return user, claims, nil
}
