package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aurora-digital/identity/internal/model"
	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/aurora-digital/identity/pkg/logger"
	"github.com/aurora-digital/identity/pkg/redis"
	"gorm.io/gorm"
)

// BlacklistRepository is the revocation ledger. Postgres is the source
// of truth; Redis serves as a read-through cache so the hot path of
// refresh verification rarely touches the database.
type BlacklistRepository struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewBlacklistRepository(db *gorm.DB, cache *redis.Client) *BlacklistRepository {
	return &BlacklistRepository{db: db, cache: cache}
}

// Add records a revoked token. The database write must succeed; the
// cache write is best-effort since a miss falls back to the database.
// Re-blacklisting an already blacklisted token is not an error.
func (r *BlacklistRepository) Add(ctx context.Context, token string, kind model.TokenKind, userID *uint, expiresAt time.Time, reason string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "BlacklistToken")

	entry := &model.RevokedToken{
		Token:         token,
		TokenKind:     kind,
		UserID:        userID,
		ExpiresAt:     expiresAt,
		Reason:        reason,
		BlacklistedAt: time.Now().UTC(),
	}

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		logger.ErrorWithContext(ctx, "Failed to blacklist token").
			String("token_kind", string(kind)).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	if r.cache != nil {
		ttl := time.Until(expiresAt)
		if err := r.cache.MarkBlacklisted(ctx, token, ttl); err != nil {
			logger.WarnWithContext(ctx, "Failed to cache blacklist entry").
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Token blacklisted").
		String("token_kind", string(kind)).
		String("reason", reason).
		Time("expires_at", expiresAt).
		Duration(time.Since(start)).
		Log()

	return nil
}

// IsBlacklisted reports whether the token was revoked. Cache errors are
// swallowed; the database answer wins.
func (r *BlacklistRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "IsTokenBlacklisted")

	if r.cache != nil {
		hit, err := r.cache.IsBlacklisted(ctx, token)
		if err == nil && hit {
			return true, nil
		}
		if err != nil {
			logger.WarnWithContext(ctx, "Blacklist cache lookup failed, falling back to database").
				Err(err).
				Log()
		}
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.RevokedToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check token blacklist").
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}

// PurgeExpired removes entries whose protected token has expired on its
// own. Safe to run repeatedly and concurrently.
func (r *BlacklistRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "PurgeExpiredBlacklist")

	result := r.db.WithContext(ctx).Unscoped().
		Where("expires_at < ?", now).
		Delete(&model.RevokedToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to purge expired blacklist entries").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired blacklist entries purged").
			Int64("purged_count", result.RowsAffected).
			Log()
	}

	return result.RowsAffected, nil
}
