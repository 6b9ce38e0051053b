package dto

import (
	"time"

	"github.com/aurora-digital/identity/internal/model"
)

type UserResponse struct {
	ID            uint       `json:"id"`
	Email         string     `json:"email"`
	Username      *string    `json:"username,omitempty"`
	FullName      string     `json:"full_name"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewUserResponse maps a user record to its public representation.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		Role:          string(u.Role),
		Status:        string(u.Status),
		EmailVerified: u.EmailVerified,
		LastLogin:     u.LastLogin,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name" binding:"omitempty,min=2,max=100"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=2048"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=guest user manager admin superadmin"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive suspended pending_verification"`
}

type UserFilter struct {
	Role   string `form:"role"`
	Status string `form:"status"`
}

type UserStatsResponse struct {
	TotalUsers       int64            `json:"total_users"`
	ActiveSessions   int64            `json:"active_sessions"`
	RoleDistribution map[string]int64 `json:"role_distribution"`
}
