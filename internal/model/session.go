package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionExpired    SessionStatus = "expired"
	SessionRevoked    SessionStatus = "revoked"
	SessionSuspicious SessionStatus = "suspicious"
)

type SessionPlatform string

const (
	PlatformWeb     SessionPlatform = "web"
	PlatformIOS     SessionPlatform = "ios"
	PlatformAndroid SessionPlatform = "android"
	PlatformDesktop SessionPlatform = "desktop"
)

// Session is one authenticated device login. TokenID is the JTI shared
// by the current access/refresh token pair, so one row represents the
// pair; it is replaced in place on every successful refresh.
type Session struct {
	gorm.Model
	UserID       uint            `gorm:"column:user_id;index;not null"`
	TokenID      string          `gorm:"column:token_id;uniqueIndex;not null"`
	RefreshToken string          `gorm:"column:refresh_token;index;not null"`
	UserAgent    string          `gorm:"column:user_agent"`
	IPAddress    string          `gorm:"column:ip_address"`
	Platform     SessionPlatform `gorm:"column:platform;default:web;not null"`
	DeviceInfo   datatypes.JSON  `gorm:"column:device_info"`
	Status       SessionStatus   `gorm:"column:status;default:active;not null;index"`
	RememberMe   bool            `gorm:"column:remember_me;default:false;not null"`
	LastActive   time.Time       `gorm:"column:last_active;not null"`
	ExpiresAt    time.Time       `gorm:"column:expires_at;index;not null"`
}

// DetectPlatform classifies a User-Agent string into a session platform.
func DetectPlatform(userAgent string) SessionPlatform {
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "mobile"):
		if strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") {
			return PlatformIOS
		}
		return PlatformAndroid
	case strings.Contains(ua, "mozilla"), strings.Contains(ua, "chrome"), strings.Contains(ua, "safari"):
		return PlatformWeb
	default:
		return PlatformDesktop
	}
}
