package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/middleware"
	"github.com/caseflow/caseflow-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles case document HTTP requests
type DocumentHandler struct {
	service service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Upload handles POST /api/v1/cases/:id/documents
// @Summary Upload a document to a case
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Param file formData file true "Document file"
// @Success 201 {object} common.APIResponse{data=domain.DocumentResponse}
// @Router /cases/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid case ID", err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "File is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.service.Upload(c.Request.Context(), caseID, userID, role,
		fileHeader.Filename, contentType, fileHeader.Size, file)
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
		common.ErrorResponse(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: doc})
}

// ListByCase handles GET /api/v1/cases/:id/documents
// @Summary List a case's documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Success 200 {object} common.APIResponse{data=[]domain.DocumentResponse}
// @Router /cases/{id}/documents [get]
func (h *DocumentHandler) ListByCase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid case ID", err)
		return
	}

	docs, err := h.service.ListByCase(caseID, userID, role)
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a party to this case", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: docs})
}

// GetDownloadURL handles GET /api/v1/documents/:id/url
// @Summary Get a short-lived download URL for a document
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} common.APIResponse{data=domain.DocumentURLResponse}
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) GetDownloadURL(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid document ID", err)
		return
	}

	result, err := h.service.GetDownloadURL(c.Request.Context(), documentID, userID, role)
	if errors.Is(err, common.ErrDocumentNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Document not found", err)
		return
	}
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a party to this case", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate download URL", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: result})
}
