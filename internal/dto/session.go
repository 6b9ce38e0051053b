package dto

import (
	"time"

	"github.com/aurora-digital/identity/internal/model"
)

type SessionResponse struct {
	ID         uint      `json:"id"`
	Platform   string    `json:"platform"`
	UserAgent  string    `json:"user_agent,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	DeviceInfo any       `json:"device_info,omitempty"`
	Current    bool      `json:"current"`
	LastActive time.Time `json:"last_active"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewSessionResponse maps a session row to its client representation.
// The refresh token and token identifier never leave the server.
func NewSessionResponse(s *model.Session, currentTokenID string) SessionResponse {
	resp := SessionResponse{
		ID:         s.ID,
		Platform:   string(s.Platform),
		UserAgent:  s.UserAgent,
		IPAddress:  s.IPAddress,
		Current:    s.TokenID == currentTokenID,
		LastActive: s.LastActive,
		ExpiresAt:  s.ExpiresAt,
		CreatedAt:  s.CreatedAt,
	}
	if len(s.DeviceInfo) > 0 {
		resp.DeviceInfo = s.DeviceInfo
	}
	return resp
}
