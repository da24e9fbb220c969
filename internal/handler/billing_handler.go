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

// BillingHandler handles invoice HTTP requests
type BillingHandler struct {
	service service.BillingService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(service service.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

// CreateInvoice handles POST /api/v1/admin/invoices (admin only)
// @Summary Issue an invoice for a case
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} common.APIResponse{data=domain.InvoiceResponse}
// @Router /admin/invoices [post]
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req domain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	invoice, err := h.service.CreateInvoice(actorID, &req)
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create invoice", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: invoice})
}

// ListByCase handles GET /api/v1/cases/:id/invoices
// @Summary List a case's invoices
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param id path int true "Case ID"
// @Success 200 {object} common.APIResponse{data=[]domain.InvoiceResponse}
// @Router /cases/{id}/invoices [get]
func (h *BillingHandler) ListByCase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)

	caseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid case ID", err)
		return
	}

	invoices, err := h.service.ListByCase(caseID, userID, role)
	if errors.Is(err, common.ErrCaseNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Case not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a party to this case", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: invoices})
}

// ListMine handles GET /api/v1/billing/invoices
// Clients see their own invoices.
// @Summary List the authenticated client's invoices
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.APIResponse{data=[]domain.InvoiceResponse}
// @Router /billing/invoices [get]
func (h *BillingHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	invoices, meta, err := h.service.ListForClient(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: invoices, Meta: meta})
}

// MarkPaid handles POST /api/v1/admin/invoices/:id/pay (admin only)
// @Summary Mark an issued invoice as paid
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} common.APIResponse{data=domain.InvoiceResponse}
// @Router /admin/invoices/{id}/pay [post]
func (h *BillingHandler) MarkPaid(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid invoice ID", err)
		return
	}

	invoice, err := h.service.MarkPaid(invoiceID, actorID)
	if errors.Is(err, common.ErrInvoiceNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Invoice not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "Invoice is not in an issued state", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to mark invoice as paid", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: invoice})
}
