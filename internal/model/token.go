package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenKind discriminates the signed tokens the service issues.
type TokenKind string

const (
	TokenAccess            TokenKind = "access"
	TokenRefresh           TokenKind = "refresh"
	TokenPasswordReset     TokenKind = "password_reset"
	TokenEmailVerification TokenKind = "email_verification"
)

// RevokedToken is a blacklist entry. A blacklisted token is rejected by
// verification even while its signature and expiry are still valid;
// entries are purged once the token would have expired anyway.
type RevokedToken struct {
	gorm.Model
	Token         string    `gorm:"column:token;uniqueIndex;not null"`
	TokenKind     TokenKind `gorm:"column:token_kind;not null"`
	UserID        *uint     `gorm:"column:user_id;index"`
	ExpiresAt     time.Time `gorm:"column:expires_at;index;not null"`
	Reason        string    `gorm:"column:reason"`
	BlacklistedAt time.Time `gorm:"column:blacklisted_at;not null"`
}
