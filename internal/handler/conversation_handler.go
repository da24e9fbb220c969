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

// ConversationHandler handles direct messaging HTTP requests
type ConversationHandler struct {
	service service.MessagingService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(service service.MessagingService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// StartConversation handles POST /api/v1/conversations
// @Summary Start or continue a conversation with another user
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.StartConversationRequest true "Recipient, subject and first message"
// @Success 201 {object} common.APIResponse{data=domain.ConversationDetail}
// @Router /conversations [post]
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	senderID := middleware.GetUserID(c)

	var req domain.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	detail, err := h.service.StartConversation(senderID, &req)
	if errors.Is(err, common.ErrSelfConversation) {
		common.ErrorResponse(c, http.StatusBadRequest, "Cannot start a conversation with yourself", err)
		return
	}
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Recipient not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: detail})
}

// Reply handles POST /api/v1/conversations/:id/messages
// @Summary Reply in an existing conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Param request body domain.ReplyRequest true "Message content"
// @Success 201 {object} common.APIResponse{data=domain.MessageResponse}
// @Router /conversations/{id}/messages [post]
func (h *ConversationHandler) Reply(c *gin.Context) {
	senderID := middleware.GetUserID(c)

	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid conversation ID", err)
		return
	}

	var req domain.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.service.Reply(conversationID, senderID, req.Content)
	if errors.Is(err, common.ErrConversationNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Conversation not found", err)
		return
	}
	if errors.Is(err, common.ErrNotParticipant) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a participant of this conversation", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: msg})
}

// GetInbox handles GET /api/v1/conversations
// @Summary List the authenticated user's conversations
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.APIResponse{data=[]domain.ConversationSummary}
// @Router /conversations [get]
func (h *ConversationHandler) GetInbox(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	conversations, meta, err := h.service.GetInbox(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load conversations", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: conversations, Meta: meta})
}

// GetConversation handles GET /api/v1/conversations/:id
// Viewing a thread marks the counterpart's messages as read.
// @Summary View a conversation thread
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {object} common.APIResponse{data=domain.ConversationDetail}
// @Router /conversations/{id} [get]
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid conversation ID", err)
		return
	}

	detail, err := h.service.ViewConversation(conversationID, viewerID)
	if errors.Is(err, common.ErrConversationNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Conversation not found", err)
		return
	}
	if errors.Is(err, common.ErrNotParticipant) {
		common.ErrorResponse(c, http.StatusForbidden, "Not a participant of this conversation", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load conversation", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: detail})
}
