package handler

import (
	"net/http"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles admin dashboard requests
type DashboardHandler struct {
	service service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetSummary handles GET /api/v1/admin/dashboard (admin only)
// @Summary Get aggregate user, case and billing counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=service.DashboardSummary}
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: summary})
}
