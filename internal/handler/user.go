package handler

import (
	"net/http"
	"strconv"

	"github.com/aurora-digital/identity/internal/constants"
	"github.com/aurora-digital/identity/internal/dto"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/middleware"
	"github.com/aurora-digital/identity/internal/model"
	"github.com/aurora-digital/identity/internal/service"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UpdateProfile handles PUT /users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	resp, err := h.users.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /users with pagination, search and role/status filters.
func (h *UserHandler) List(c *gin.Context) {
	params := constants.ParsePaginationParams(c)

	var filter dto.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindingError(c, err)
		return
	}

	users, total, err := h.users.ListUsers(c.Request.Context(), params.Limit, params.Offset, params.Search, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	pageTotal := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pageTotal, users))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.users.GetProfile(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateRole handles PUT /users/:id/role.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	resp, err := h.users.UpdateRole(c.Request.Context(), actor.Role, targetID, model.UserRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PUT /users/:id/status.
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	resp, err := h.users.UpdateStatus(c.Request.Context(), actor.Role, actor.ID, targetID, model.UserStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /users/stats.
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidInput
	}
	return uint(id), nil
}
