package repository

import (
	"context"
	"strings"
	"time"

	"github.com/aurora-digital/identity/internal/dto"
	"github.com/aurora-digital/identity/internal/model"
	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/aurora-digital/identity/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Unique violations on email/username surface
// as gorm.ErrDuplicatedKey for the service layer to map.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateUser")

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(time.Since(start)).
		Log()

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetUserByID")

	var user model.User
	result := r.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail finds a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetUserByEmail")

	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetUserByUsername")

	var user model.User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// List returns a page of users with optional search and role/status filters.
func (r *UserRepository) List(ctx context.Context, limit, offset int, search string, filter dto.UserFilter) ([]model.User, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListUsers")

	query := r.db.WithContext(ctx).Model(&model.User{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("email ILIKE ? OR full_name ILIKE ? OR username ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").Err(err).Log()
		return nil, 0, err
	}

	var users []model.User
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list users").Err(err).Log()
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateProfile updates the mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateUserProfile")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user profile").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateUserPassword")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hashedPassword)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update password").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Password updated").Uint("user_id", id).Log()
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role model.UserRole) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateUserRole")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus changes account status and keeps the is_active flag in step.
func (r *UserRepository) UpdateStatus(ctx context.Context, id uint, status model.UserStatus) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateUserStatus")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    status,
		"is_active": status == model.StatusActive,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordLogin stamps last_login and increments the login counter.
func (r *UserRepository) RecordLogin(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "RecordLogin")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_login":  time.Now().UTC(),
		"login_count": gorm.Expr("login_count + 1"),
	})
	return result.Error
}

// SetEmailVerified marks the address verified and promotes accounts out
// of pending_verification.
func (r *UserRepository) SetEmailVerified(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "SetEmailVerified")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email_verified": true})
	if result.Error != nil {
		return result.Error
	}

	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND status = ?", id, model.StatusPendingVerification).
		Update("status", model.StatusActive).Error
}

// CountByRole returns the distribution of users across roles.
func (r *UserRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountUsersByRole")

	type roleCount struct {
		Role  string
		Count int64
	}

	var rows []roleCount
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}
