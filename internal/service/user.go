package service

import (
	"context"
	"errors"

	"github.com/aurora-digital/identity/internal/dto"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/model"
	ctxutil "github.com/aurora-digital/identity/pkg/context"
	"github.com/aurora-digital/identity/pkg/logger"
	"gorm.io/gorm"
)

type userAdminStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context, limit, offset int, search string, filter dto.UserFilter) ([]model.User, int64, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error
	UpdateRole(ctx context.Context, id uint, role model.UserRole) error
	UpdateStatus(ctx context.Context, id uint, status model.UserStatus) error
	CountByRole(ctx context.Context) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
}

type sessionCounter interface {
	ListActive(ctx context.Context, userID uint) ([]model.Session, error)
	RevokeAllForUser(ctx context.Context, userID uint, excludeTokenID string) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// UserService covers profile management and the admin surface over
// accounts. Role and status changes respect the role hierarchy:
// superadmin accounts can only be modified by another superadmin, and
// nobody grants a role above their own.
type UserService struct {
	users     userAdminStore
	sessions  sessionCounter
	blacklist blacklistStore
}

func NewUserService(users userAdminStore, sessions sessionCounter, blacklist blacklistStore) *UserService {
	return &UserService{users: users, sessions: sessions, blacklist: blacklist}
}

// GetProfile returns the public representation of a user.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetProfile")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile applies the mutable profile fields and returns the
// updated record.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateProfile")

	fields := map[string]interface{}{}
	if req.FullName != "" {
		fields["full_name"] = req.FullName
	}
	if req.AvatarURL != "" {
		fields["avatar_url"] = req.AvatarURL
	}
	if len(fields) == 0 {
		return s.GetProfile(ctx, userID)
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.GetProfile(ctx, userID)
}

// ListUsers returns a page of accounts for the admin surface.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int, search string, filter dto.UserFilter) ([]dto.UserResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListUsers")

	users, total, err := s.users.List(ctx, limit, offset, search, filter)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}
	return responses, total, nil
}

// UpdateRole changes a user's role on behalf of actorRole.
func (s *UserService) UpdateRole(ctx context.Context, actorRole model.UserRole, targetID uint, newRole model.UserRole) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateRole")

	if !newRole.Valid() {
		return nil, apperrors.ErrInvalidInput
	}
	if !actorRole.AtLeast(newRole) {
		return nil, apperrors.ErrInsufficientRole
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if target.Role == model.RoleSuperadmin && actorRole != model.RoleSuperadmin {
		return nil, apperrors.ErrProtectedAccount
	}

	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User role updated").
		Uint("target_user_id", targetID).
		String("old_role", string(target.Role)).
		String("new_role", string(newRole)).
		Log()

	return s.GetProfile(ctx, targetID)
}

// UpdateStatus changes an account's status. Moving away from active
// terminates all of the user's sessions.
func (s *UserService) UpdateStatus(ctx context.Context, actorRole model.UserRole, actorID, targetID uint, status model.UserStatus) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateStatus")

	if actorID == targetID {
		return nil, apperrors.ErrProtectedAccount
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if target.Role == model.RoleSuperadmin && actorRole != model.RoleSuperadmin {
		return nil, apperrors.ErrProtectedAccount
	}

	if err := s.users.UpdateStatus(ctx, targetID, status); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if status != model.StatusActive {
		if err := s.terminateSessions(ctx, targetID, "account_"+string(status)); err != nil {
			return nil, err
		}
	}

	logger.InfoWithContext(ctx, "User status updated").
		Uint("target_user_id", targetID).
		String("old_status", string(target.Status)).
		String("new_status", string(status)).
		Log()

	return s.GetProfile(ctx, targetID)
}

func (s *UserService) terminateSessions(ctx context.Context, userID uint, reason string) error {
	sessions, err := s.sessions.ListActive(ctx, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	for i := range sessions {
		if err := s.blacklist.Add(ctx, sessions[i].RefreshToken, model.TokenRefresh, &userID, sessions[i].ExpiresAt, reason); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}
	if _, err := s.sessions.RevokeAllForUser(ctx, userID, ""); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

// Stats aggregates account and session counts for the admin dashboard.
func (s *UserService) Stats(ctx context.Context) (*dto.UserStatsResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UserStats")

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	activeSessions, err := s.sessions.CountActive(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.UserStatsResponse{
		TotalUsers:       total,
		ActiveSessions:   activeSessions,
		RoleDistribution: byRole,
	}, nil
}
