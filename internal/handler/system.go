package handler

import (
	"net/http"
	"time"

	"github.com/aurora-digital/identity/internal/constants"
	"github.com/aurora-digital/identity/internal/service"
	"github.com/aurora-digital/identity/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SystemHandler struct {
	db      *gorm.DB
	cache   *redis.Client
	cleanup *service.CleanupService
	started time.Time
}

func NewSystemHandler(db *gorm.DB, cache *redis.Client, cleanup *service.CleanupService) *SystemHandler {
	return &SystemHandler{db: db, cache: cache, cleanup: cleanup, started: time.Now().UTC()}
}

// Health handles GET /health. Degraded dependencies are reported but do
// not fail the endpoint as long as the database answers.
func (h *SystemHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"service":  constants.AppName,
		"version":  constants.AppVersion,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"database": dbStatus,
		"cache":    h.cache.Stats(),
	})
}

// Cleanup handles POST /admin/cleanup, triggering one sweep on demand.
func (h *SystemHandler) Cleanup(c *gin.Context) {
	result, err := h.cleanup.RunOnce(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
