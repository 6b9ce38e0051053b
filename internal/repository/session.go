package repository

import (
	"context"
	"time"

	"github.com/aurora-digital/identity/internal/model"
	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/aurora-digital/identity/pkg/logger"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row for a fresh login.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateSession")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(session)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create session").
			Uint("user_id", session.UserID).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Session created").
		Uint("user_id", session.UserID).
		Uint("session_id", session.ID).
		String("platform", string(session.Platform)).
		Duration(time.Since(start)).
		Log()

	return nil
}

// FindActiveByTokenID resolves the session whose current token pair
// carries the given token identifier.
func (r *SessionRepository) FindActiveByTokenID(ctx context.Context, tokenID string) (*model.Session, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindSessionByTokenID")

	var session model.Session
	result := r.db.WithContext(ctx).
		Where("token_id = ? AND status = ?", tokenID, model.SessionActive).
		First(&session)
	if result.Error != nil {
		return nil, result.Error
	}
	return &session, nil
}

// FindActiveByRefreshToken resolves the session holding the given
// refresh token value.
func (r *SessionRepository) FindActiveByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindSessionByRefreshToken")

	var session model.Session
	result := r.db.WithContext(ctx).
		Where("refresh_token = ? AND status = ?", refreshToken, model.SessionActive).
		First(&session)
	if result.Error != nil {
		return nil, result.Error
	}
	return &session, nil
}

// ListActive returns all active sessions for a user, most recently
// active first.
func (r *SessionRepository) ListActive(ctx context.Context, userID uint) ([]model.Session, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListActiveSessions")

	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SessionActive).
		Order("last_active DESC").
		Find(&sessions).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list sessions").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, err
	}
	return sessions, nil
}

// Rotate replaces the token pair of a session in place. The update is a
// compare-and-swap on the old token id: when two refreshes race, only
// one observes a row change and the loser fails with
// gorm.ErrRecordNotFound.
func (r *SessionRepository) Rotate(ctx context.Context, sessionID uint, oldTokenID, newTokenID, newRefreshToken string, newExpiry time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "RotateSession")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND token_id = ? AND status = ?", sessionID, oldTokenID, model.SessionActive).
		Updates(map[string]interface{}{
			"token_id":      newTokenID,
			"refresh_token": newRefreshToken,
			"last_active":   time.Now().UTC(),
			"expires_at":    newExpiry,
		})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to rotate session").
			Uint("session_id", sessionID).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "Session rotation lost the race or session gone").
			Uint("session_id", sessionID).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Session rotated").
		Uint("session_id", sessionID).
		Duration(time.Since(start)).
		Log()

	return nil
}

// MarkExpired transitions a session to expired once its expiry passed.
func (r *SessionRepository) MarkExpired(ctx context.Context, sessionID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "MarkSessionExpired")

	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", sessionID).
		Update("status", model.SessionExpired).Error
}

// Revoke terminates a single session.
func (r *SessionRepository) Revoke(ctx context.Context, sessionID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "RevokeSession")

	result := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status = ?", sessionID, model.SessionActive).
		Update("status", model.SessionRevoked)
	if result.Error != nil {
		return result.Error
	}

	logger.InfoWithContext(ctx, "Session revoked").
		Uint("session_id", sessionID).
		Log()
	return nil
}

// RevokeAllForUser terminates every active session of a user. When
// excludeTokenID is non-empty the session currently in use survives
// (password change keeps the acting device logged in).
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID uint, excludeTokenID string) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "RevokeAllSessions")

	query := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("user_id = ? AND status = ?", userID, model.SessionActive)
	if excludeTokenID != "" {
		query = query.Where("token_id <> ?", excludeTokenID)
	}

	result := query.Update("status", model.SessionRevoked)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke user sessions").
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.InfoWithContext(ctx, "User sessions revoked").
		Uint("user_id", userID).
		Int64("revoked_count", result.RowsAffected).
		Log()

	return result.RowsAffected, nil
}

// TouchLastActive refreshes the activity timestamp of the session
// behind the given token id.
func (r *SessionRepository) TouchLastActive(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("token_id = ? AND status = ?", tokenID, model.SessionActive).
		Update("last_active", time.Now().UTC()).Error
}

// PurgeExpired hard-deletes sessions whose expiry has passed. Idempotent:
// running with nothing to purge is not an error.
func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "PurgeExpiredSessions")

	result := r.db.WithContext(ctx).Unscoped().
		Where("expires_at < ?", now).
		Delete(&model.Session{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to purge expired sessions").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired sessions purged").
			Int64("purged_count", result.RowsAffected).
			Log()
	}

	return result.RowsAffected, nil
}

// CountActive returns the number of live sessions across all users.
func (r *SessionRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("status = ? AND expires_at > ?", model.SessionActive, time.Now().UTC()).
		Count(&total).Error
	return total, err
}
