package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/middleware"
	"github.com/caseflow/caseflow-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminUserHandler handles admin user management requests
type AdminUserHandler struct {
	service service.AdminUserService
}

// NewAdminUserHandler creates a new AdminUserHandler
func NewAdminUserHandler(service service.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{service: service}
}

// StatusActionRequest names the transition to apply to a user account
type StatusActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// ListUsers handles GET /api/v1/admin/users
// @Summary List users with optional role, status and keyword filters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status"
// @Param q query string false "Search username, email or full name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.APIResponse{data=[]domain.UserResponse}
// @Router /admin/users [get]
func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	filter := domain.UserFilter{
		Role:    c.Query("role"),
		Status:  c.Query("status"),
		Keyword: c.Query("q"),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, meta, err := h.service.ListUsers(filter, page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: users, Meta: meta})
}

// GetUser handles GET /api/v1/admin/users/:id
// @Summary Get a single user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} common.APIResponse{data=domain.UserResponse}
// @Router /admin/users/{id} [get]
func (h *AdminUserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	user, err := h.service.GetUser(id)
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load user", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: user})
}

// TransitionStatus handles POST /api/v1/admin/users/:id/status
// Valid actions are approve, suspend and activate. An action applied to an
// account in the wrong state returns 422 without changing anything.
// @Summary Apply a status transition to a user account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body StatusActionRequest true "Transition action"
// @Success 200 {object} common.APIResponse{data=domain.UserResponse}
// @Router /admin/users/{id}/status [post]
func (h *AdminUserHandler) TransitionStatus(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	var req StatusActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.TransitionStatus(targetID, req.Action, actorID)
	if errors.Is(err, common.ErrSelfTransition) {
		common.ErrorResponse(c, http.StatusBadRequest, "Cannot change your own account status", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown action", err)
		return
	}
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "Account status does not allow this action", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Status change failed", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: user})
}

// GetAuditLog handles GET /api/v1/admin/audit-log
// @Summary List administrative audit log entries
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param target_type query string false "Filter by target type (user, case, invoice)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.APIResponse{data=[]domain.AuditLogItem}
// @Router /admin/audit-log [get]
func (h *AdminUserHandler) GetAuditLog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, meta, err := h.service.GetAuditLog(c.Query("target_type"), page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load audit log", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: entries, Meta: meta})
}
