package constants

import "time"

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MinNameLength     = 2
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxUserAgentLen   = 500
)

// bcrypt only hashes the first 72 bytes of input; longer passwords are
// truncated before hashing, so characters past position 72 do not
// contribute to uniqueness.
const BcryptMaxPasswordBytes = 72

// BcryptCost is the work factor used for password hashing.
const BcryptCost = 12

// Token Lifetimes
const (
	AccessTokenTTL       = 15 * time.Minute
	RefreshTokenTTL      = 7 * 24 * time.Hour
	RefreshTokenTTLLong  = 30 * 24 * time.Hour // remember-me sessions
	PasswordResetTTL     = 24 * time.Hour
	EmailVerificationTTL = 24 * time.Hour
)

// TokenIDBytes is the number of random bytes in a token identifier (JTI).
// 16 bytes (128 bits) hex-encoded to 32 characters.
const TokenIDBytes = 16
