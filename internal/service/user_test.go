package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aurora-digital/identity/internal/dto"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/model"
	"gorm.io/gorm"
)

// Admin-surface methods for the user fake.

func (f *fakeUserStore) List(_ context.Context, limit, offset int, search string, filter dto.UserFilter) ([]model.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.User
	for _, u := range f.users {
		if search != "" && !strings.Contains(u.Email, strings.ToLower(search)) {
			continue
		}
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.Status != "" && string(u.Status) != filter.Status {
			continue
		}
		matched = append(matched, *u)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id uint, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["full_name"].(string); ok {
		u.FullName = v
	}
	if v, ok := fields["avatar_url"].(string); ok {
		u.AvatarURL = v
	}
	return nil
}

func (f *fakeUserStore) UpdateRole(_ context.Context, id uint, role model.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUserStore) UpdateStatus(_ context.Context, id uint, status model.UserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	u.IsActive = status == model.StatusActive
	return nil
}

func (f *fakeUserStore) CountByRole(_ context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, u := range f.users {
		counts[string(u.Role)]++
	}
	return counts, nil
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeSessionStore) CountActive(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, s := range f.sessions {
		if s.Status == model.SessionActive {
			count++
		}
	}
	return count, nil
}

type userFixture struct {
	svc       *UserService
	users     *fakeUserStore
	sessions  *fakeSessionStore
	blacklist *fakeBlacklist
}

func newUserFixture() *userFixture {
	users := newFakeUserStore()
	sessions := &fakeSessionStore{}
	blacklist := newFakeBlacklist()
	return &userFixture{
		svc:       NewUserService(users, sessions, blacklist),
		users:     users,
		sessions:  sessions,
		blacklist: blacklist,
	}
}

func (f *userFixture) addUser(t *testing.T, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test User",
		Password: "irrelevant-hash",
		Role:     role,
		Status:   model.StatusActive,
		IsActive: true,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestUpdateProfile(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "alice@example.com", model.RoleUser)

	resp, err := f.svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		FullName:  "Alice Cooper",
		AvatarURL: "https://cdn.example.com/a.png",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if resp.FullName != "Alice Cooper" {
		t.Errorf("FullName = %q", resp.FullName)
	}
	if resp.AvatarURL != "https://cdn.example.com/a.png" {
		t.Errorf("AvatarURL = %q", resp.AvatarURL)
	}
}

func TestUpdateRoleHierarchy(t *testing.T) {
	tests := []struct {
		name       string
		actorRole  model.UserRole
		targetRole model.UserRole
		newRole    model.UserRole
		wantCode   string
	}{
		{
			name:      "admin promotes user to manager",
			actorRole: model.RoleAdmin, targetRole: model.RoleUser, newRole: model.RoleManager,
		},
		{
			name:      "admin cannot grant superadmin",
			actorRole: model.RoleAdmin, targetRole: model.RoleUser, newRole: model.RoleSuperadmin,
			wantCode: "INSUFFICIENT_ROLE",
		},
		{
			name:      "admin cannot touch a superadmin",
			actorRole: model.RoleAdmin, targetRole: model.RoleSuperadmin, newRole: model.RoleUser,
			wantCode: "PROTECTED_ACCOUNT",
		},
		{
			name:      "superadmin demotes a superadmin",
			actorRole: model.RoleSuperadmin, targetRole: model.RoleSuperadmin, newRole: model.RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture()
			target := f.addUser(t, "target@example.com", tt.targetRole)

			resp, err := f.svc.UpdateRole(context.Background(), tt.actorRole, target.ID, tt.newRole)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("UpdateRole() error = %v", err)
				}
				if resp.Role != string(tt.newRole) {
					t.Errorf("Role = %q, want %q", resp.Role, tt.newRole)
				}
				return
			}

			domainErr := apperrors.GetDomainError(err)
			if domainErr == nil || domainErr.Code != tt.wantCode {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestUpdateStatusSuspensionKillsSessions(t *testing.T) {
	f := newUserFixture()
	admin := f.addUser(t, "admin@example.com", model.RoleAdmin)
	target := f.addUser(t, "target@example.com", model.RoleUser)

	session := &model.Session{
		UserID:       target.ID,
		TokenID:      "target-jti",
		RefreshToken: "target-refresh",
		Status:       model.SessionActive,
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	if err := f.sessions.Create(context.Background(), session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	resp, err := f.svc.UpdateStatus(context.Background(), admin.Role, admin.ID, target.ID, model.StatusSuspended)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if resp.Status != string(model.StatusSuspended) {
		t.Errorf("Status = %q, want suspended", resp.Status)
	}

	if session.Status != model.SessionRevoked {
		t.Error("suspension did not revoke sessions")
	}
	if revoked, _ := f.blacklist.IsBlacklisted(context.Background(), "target-refresh"); !revoked {
		t.Error("refresh token not blacklisted on suspension")
	}
}

func TestUpdateStatusSelfProtection(t *testing.T) {
	f := newUserFixture()
	admin := f.addUser(t, "admin@example.com", model.RoleAdmin)

	_, err := f.svc.UpdateStatus(context.Background(), admin.Role, admin.ID, admin.ID, model.StatusSuspended)
	if !apperrors.ErrProtectedAccount.Is(err) {
		t.Fatalf("error = %v, want ErrProtectedAccount", err)
	}
}

func TestListUsersFilter(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "a@example.com", model.RoleUser)
	f.addUser(t, "b@example.com", model.RoleAdmin)
	f.addUser(t, "c@example.com", model.RoleUser)

	users, total, err := f.svc.ListUsers(context.Background(), 10, 0, "", dto.UserFilter{Role: "user"})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("ListUsers() total = %d len = %d, want 2/2", total, len(users))
	}
}

func TestStats(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "a@example.com", model.RoleUser)
	f.addUser(t, "b@example.com", model.RoleAdmin)

	stats, err := f.svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, want 2", stats.TotalUsers)
	}
	if stats.RoleDistribution["user"] != 1 || stats.RoleDistribution["admin"] != 1 {
		t.Errorf("RoleDistribution = %v", stats.RoleDistribution)
	}
}
