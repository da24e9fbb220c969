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

// CaseHandler handles legal case HTTP requests
type CaseHandler struct {
	service service.CaseService
}

// NewCaseHandler creates a new CaseHandler
func NewCaseHandler(service service.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// CreateCase handles POST /api/v1/cases
// @Summary Open a new case
// @Tags cases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateCaseRequest true "Case data"
// @Success 201 {object} common.APIResponse{data=domain.CaseResponse}
// @Router /cases [post]
func (h *CaseHandler) CreateCase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	var req domain.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.CreateCase(userID, role, &req)
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to open this case", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create case", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: result})
}

// GetCase handles GET /api/v1/cases/:id
// @Summary Get a case visible to the caller
// @Tags cases
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Success 200 {object} common.APIResponse{data=domain.CaseResponse}
// @Router /cases/{id} [get]
func (h *CaseHandler) GetCase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid case ID", err)
		return
	}

	result, err := h.service.GetCase(id, userID, role)
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a party to this case", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load case", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: result})
}

// ListCases handles GET /api/v1/cases
// Admins see all cases; clients and advocates see the cases they are
// a party to.
// @Summary List cases visible to the caller
// @Tags cases
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.APIResponse{data=[]domain.CaseResponse}
// @Router /cases [get]
func (h *CaseHandler) ListCases(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	cases, meta, err := h.service.ListCases(userID, role, page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list cases", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: cases, Meta: meta})
}

// UpdateStatus handles PATCH /api/v1/cases/:id/status
// @Summary Move a case to a new status
// @Tags cases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Param request body domain.UpdateCaseStatusRequest true "New status"
// @Success 200 {object} common.APIResponse{data=domain.CaseResponse}
// @Router /cases/{id}/status [patch]
func (h *CaseHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid case ID", err)
		return
	}

	var req domain.UpdateCaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.UpdateStatus(id, userID, role, &req)
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to change this case", err)
		return
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "Case status does not allow this change", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update case status", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: result})
}

// RecordActivity handles POST /api/v1/cases/:id/activities
// @Summary Record an activity on a case timeline
// @Tags cases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Param request body domain.RecordActivityRequest true "Activity data"
// @Success 201 {object} common.APIResponse{data=domain.CaseActivityItem}
// @Router /cases/{id}/activities [post]
func (h *CaseHandler) RecordActivity(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid case ID", err)
		return
	}

	var req domain.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.service.RecordActivity(id, userID, role, &req)
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a party to this case", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to record activity", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: item})
}

// ListActivities handles GET /api/v1/cases/:id/activities
// @Summary List a case's activity timeline
// @Tags cases
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Success 200 {object} common.APIResponse{data=[]domain.CaseActivityItem}
// @Router /cases/{id}/activities [get]
func (h *CaseHandler) ListActivities(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid case ID", err)
		return
	}

	items, err := h.service.ListActivities(id, userID, role)
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a party to this case", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load activities", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: items})
}
