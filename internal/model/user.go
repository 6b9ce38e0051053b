package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole is an ordered role; higher levels include the permissions of
// lower ones.
type UserRole string

const (
	RoleGuest      UserRole = "guest"
	RoleUser       UserRole = "user"
	RoleManager    UserRole = "manager"
	RoleAdmin      UserRole = "admin"
	RoleSuperadmin UserRole = "superadmin"
)

// roleLevels defines the total order used for authorization checks.
var roleLevels = map[UserRole]int{
	RoleGuest:      0,
	RoleUser:       1,
	RoleManager:    2,
	RoleAdmin:      3,
	RoleSuperadmin: 4,
}

// Level returns the numeric rank of the role. Unknown roles rank as guest.
func (r UserRole) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether the role satisfies the required minimum.
func (r UserRole) AtLeast(required UserRole) bool {
	return r.Level() >= required.Level()
}

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

type UserStatus string

const (
	StatusActive              UserStatus = "active"
	StatusInactive            UserStatus = "inactive"
	StatusSuspended           UserStatus = "suspended"
	StatusPendingVerification UserStatus = "pending_verification"
)

// User is a registered account. Accounts are never hard-deleted; the
// status field and gorm's DeletedAt soft delete cover deactivation.
type User struct {
	gorm.Model
	Email         string     `gorm:"column:email;uniqueIndex;not null"`
	Username      *string    `gorm:"column:username;uniqueIndex"`
	FullName      string     `gorm:"column:full_name"`
	AvatarURL     string     `gorm:"column:avatar_url"`
	Password      string     `gorm:"column:password;not null"`
	Role          UserRole   `gorm:"column:role;default:user;not null"`
	Status        UserStatus `gorm:"column:status;default:pending_verification;not null"`
	IsActive      bool       `gorm:"column:is_active;default:true;not null"`
	EmailVerified bool       `gorm:"column:email_verified;default:false;not null"`
	StorageUsed   int64      `gorm:"column:storage_used;default:0;not null"`
	LastLogin     *time.Time `gorm:"column:last_login"`
	LoginCount    int        `gorm:"column:login_count;default:0;not null"`
}
