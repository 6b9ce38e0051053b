package router

import (
	"github.com/aurora-digital/identity/config"
	"github.com/aurora-digital/identity/internal/constants"
	"github.com/aurora-digital/identity/internal/handler"
	"github.com/aurora-digital/identity/internal/middleware"
	"github.com/aurora-digital/identity/internal/model"
	"github.com/aurora-digital/identity/internal/service"
	"github.com/gin-gonic/gin"
)

// Dependencies bundles everything the router wires together.
type Dependencies struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	System  *handler.SystemHandler
	AuthSvc *service.AuthService
}

// New builds the Gin engine with the full middleware chain and routes.
func New(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	RegisterValidators()

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestContext(),
		middleware.RequestLogger(),
		middleware.CORS(),
		middleware.NewRateLimiter(cfg.RateLimit).Middleware(),
	)

	engine.GET("/health", deps.System.Health)

	v1 := engine.Group("/api/v1")

	registerAuthRoutes(v1, deps)
	registerUserRoutes(v1, deps)
	registerAdminRoutes(v1, deps)

	return engine
}

func registerAuthRoutes(v1 *gin.RouterGroup, deps Dependencies) {
	auth := v1.Group("/auth")

	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/refresh", deps.Auth.Refresh)
	auth.POST("/password-reset/request", deps.Auth.RequestPasswordReset)
	auth.POST("/password-reset/confirm", deps.Auth.ConfirmPasswordReset)
	auth.GET("/verify-email", deps.Auth.VerifyEmail)
	auth.POST("/verify-email", deps.Auth.VerifyEmail)

	authed := auth.Group("", middleware.RequireAuth(deps.AuthSvc))
	authed.POST("/logout", deps.Auth.Logout)
	authed.POST("/change-password", deps.Auth.ChangePassword)
	authed.GET("/me", deps.Auth.Me)
	authed.GET("/sessions", deps.Auth.ListSessions)
	authed.DELETE("/sessions/:id", deps.Auth.RevokeSession)
}

func registerUserRoutes(v1 *gin.RouterGroup, deps Dependencies) {
	users := v1.Group("/users", middleware.RequireAuth(deps.AuthSvc))

	users.PUT("/me", deps.Users.UpdateProfile)

	admin := users.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("", deps.Users.List)
	admin.GET("/stats", deps.Users.Stats)
	admin.GET("/:id", deps.Users.Get)
	admin.PUT("/:id/role", deps.Users.UpdateRole)
	admin.PUT("/:id/status", deps.Users.UpdateStatus)
}

func registerAdminRoutes(v1 *gin.RouterGroup, deps Dependencies) {
	admin := v1.Group("/admin",
		middleware.RequireAuth(deps.AuthSvc),
		middleware.RequireRole(model.RoleAdmin),
	)

	admin.POST("/cleanup", deps.System.Cleanup)
}
