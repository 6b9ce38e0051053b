package dto

type RegisterRequest struct {
	Email           string  `json:"email" binding:"required,email,max=255"`
	Username        *string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
	Password        string  `json:"password" binding:"required,strongpassword"`
	FullName        string  `json:"full_name" binding:"required,min=2,max=100"`
	TermsAccepted   bool    `json:"terms_accepted"`
	MarketingEmails bool    `json:"marketing_emails"`
}

type RegisterResponse struct {
	Message              string `json:"message"`
	UserID               uint   `json:"user_id"`
	Email                string `json:"email"`
	RequiresVerification bool   `json:"requires_verification"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
	DeviceID   string `json:"device_id" binding:"omitempty,max=100"`
	DeviceName string `json:"device_name" binding:"omitempty,max=100"`
}

type TokenResponse struct {
	AccessToken      string       `json:"access_token"`
	RefreshToken     string       `json:"refresh_token"`
	TokenType        string       `json:"token_type"`
	ExpiresIn        int          `json:"expires_in"`         // Access token expiry in seconds
	RefreshExpiresIn int          `json:"refresh_expires_in"` // Refresh token expiry in seconds
	User             UserResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	LogoutAll    bool   `json:"logout_all"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,strongpassword"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,strongpassword"`
}

type EmailVerificationConfirm struct {
	Token string `json:"token" binding:"required"`
}
