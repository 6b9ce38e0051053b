package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aurora-digital/identity/config"
	"github.com/aurora-digital/identity/internal/model"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		minimum    model.UserRole
		wantStatus int
	}{
		{
			name:       "role above minimum passes",
			user:       &model.User{Role: model.RoleSuperadmin},
			minimum:    model.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "exact role passes",
			user:       &model.User{Role: model.RoleAdmin},
			minimum:    model.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "role below minimum rejected",
			user:       &model.User{Role: model.RoleUser},
			minimum:    model.RoleAdmin,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unauthenticated rejected",
			user:       nil,
			minimum:    model.RoleUser,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected",
				func(c *gin.Context) {
					if tt.user != nil {
						c.Set(GinKeyUser, tt.user)
					}
				},
				RequireRole(tt.minimum),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", "Bearer abc123")

		if got := extractToken(c); got != "abc123" {
			t.Errorf("extractToken() = %q, want abc123", got)
		}
	})

	t.Run("cookie fallback", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})

		if got := extractToken(c); got != "cookie-token" {
			t.Errorf("extractToken() = %q, want cookie-token", got)
		}
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", "Bearer header-token")
		c.Request.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})

		if got := extractToken(c); got != "header-token" {
			t.Errorf("extractToken() = %q, want header-token", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		if got := extractToken(c); got != "" {
			t.Errorf("extractToken() = %q, want empty", got)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Request: 3, Duration: 60})

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d rejected under the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over the limit allowed")
	}

	// A different client has its own budget.
	if !rl.allow("10.0.0.2") {
		t.Error("separate client rejected")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Request: 1, Duration: 60})

	if !rl.allow("10.0.0.1") {
		t.Fatal("first request rejected")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("second request allowed within window")
	}

	// Force the window to expire.
	rl.mu.Lock()
	rl.windows["10.0.0.1"].resetAt = time.Now().Add(-time.Second)
	rl.mu.Unlock()

	if !rl.allow("10.0.0.1") {
		t.Error("request rejected after window reset")
	}
}
