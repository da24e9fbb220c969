package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/cache"
	"gorm.io/gorm"
)

// RealtimePublisher pushes events to connected clients. Delivery is
// best-effort; implementations must not block the caller.
type RealtimePublisher interface {
	Publish(userID int64, event string, payload interface{})
}

// Realtime event names
const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
)

// MessagingService business logic for conversations and messages
type MessagingService interface {
	StartConversation(senderID int64, req *domain.StartConversationRequest) (*domain.ConversationDetail, error)
	Reply(conversationID, senderID int64, content string) (*domain.MessageResponse, error)
	GetInbox(userID int64, page, limit int) ([]*domain.ConversationSummary, *common.Meta, error)
	ViewConversation(conversationID, viewerID int64) (*domain.ConversationDetail, error)
}

type messagingService struct {
	db        *gorm.DB
	convRepo  repository.ConversationRepository
	msgRepo   repository.MessageRepository
	userRepo  repository.UserRepository
	cache     cache.Service
	publisher RealtimePublisher
}

// NewMessagingService creates a new MessagingService
func NewMessagingService(
	db *gorm.DB,
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	cacheSvc cache.Service,
	publisher RealtimePublisher,
) MessagingService {
	return &messagingService{
		db:        db,
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		userRepo:  userRepo,
		cache:     cacheSvc,
		publisher: publisher,
	}
}

// StartConversation resolves the thread for the sender/recipient pair and
// appends the first message. An existing thread is reused and keeps its
// original subject; only a brand-new thread takes the request's subject.
func (s *messagingService) StartConversation(senderID int64, req *domain.StartConversationRequest) (*domain.ConversationDetail, error) {
	if senderID == req.RecipientID {
		return nil, common.ErrSelfConversation
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content must not be empty", common.ErrInvalidInput)
	}

	if _, err := s.userRepo.FindByID(req.RecipientID); err != nil {
		return nil, common.ErrUserNotFound
	}

	conv, err := s.resolveConversation(senderID, req.RecipientID, strings.TrimSpace(req.Subject))
	if err != nil {
		return nil, err
	}

	if _, err := s.send(conv, senderID, content); err != nil {
		return nil, err
	}

	return s.ViewConversation(conv.ID, senderID)
}

// Reply appends a message to an existing conversation
func (s *messagingService) Reply(conversationID, senderID int64, content string) (*domain.MessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content must not be empty", common.ErrInvalidInput)
	}

	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		return nil, common.ErrConversationNotFound
	}
	if !conv.HasParticipant(senderID) {
		return nil, common.ErrNotParticipant
	}

	msg, err := s.send(conv, senderID, content)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	return msg.ToResponse(sender.ToParticipantInfo()), nil
}

// resolveConversation finds or creates the thread for an unordered pair.
// The pair_key unique index closes the first-contact race: a loser of a
// concurrent create gets a duplicate-key error and re-fetches the winner's row.
func (s *messagingService) resolveConversation(senderID, recipientID int64, subject string) (*domain.Conversation, error) {
	pairKey := domain.MakePairKey(senderID, recipientID)

	conv, err := s.convRepo.FindByPairKey(pairKey)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("conversation lookup failed: %w", err)
	}

	conv = &domain.Conversation{
		InitiatorID: senderID,
		RecipientID: recipientID,
		PairKey:     pairKey,
		Subject:     subject,
	}
	if err := s.convRepo.Create(conv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.convRepo.FindByPairKey(pairKey)
		}
		return nil, fmt.Errorf("conversation create failed: %w", err)
	}
	return conv, nil
}

// send writes the message, the counterpart's notification, and the
// conversation bump in one transaction. Partial writes roll back together:
// a message never exists without its notification.
func (s *messagingService) send(conv *domain.Conversation, senderID int64, content string) (*domain.Message, error) {
	recipientID := conv.Counterpart(senderID)

	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	notification := &domain.Notification{
		UserID:      recipientID,
		Kind:        domain.NotificationKindMessage,
		Title:       fmt.Sprintf("New message from %s", sender.FullName),
		Body:        truncate(content, 200),
		ReferenceID: conv.ID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Create(notification).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", conv.ID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}

	s.afterWrite(recipientID, notification)
	return msg, nil
}

// afterWrite performs the fire-and-forget post-commit side effects:
// cache invalidation and realtime push. Failures are ignored.
func (s *messagingService) afterWrite(userID int64, notification *domain.Notification) {
	if s.cache != nil {
		_ = s.cache.InvalidateUnread(context.Background(), userID)
	}
	if s.publisher != nil {
		s.publisher.Publish(userID, EventNotification, notification.ToItem())
	}
	s.pushUnreadCount(userID)
}

// pushUnreadCount pushes the user's current total unread message count.
// Best-effort: a failed count drops the event, never the caller.
func (s *messagingService) pushUnreadCount(userID int64) {
	if s.publisher == nil {
		return
	}
	count, err := s.msgRepo.CountUnreadForUser(userID)
	if err != nil {
		return
	}
	s.publisher.Publish(userID, EventUnreadCount, unreadCountPayload{Unread: count})
}

type unreadCountPayload struct {
	Unread int64 `json:"unread"`
}

// GetInbox returns the user's conversations, most recently active first
func (s *messagingService) GetInbox(userID int64, page, limit int) ([]*domain.ConversationSummary, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	convs, total, err := s.convRepo.ListForUser(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	summaries := make([]*domain.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		counterpart, err := s.userRepo.FindByID(conv.Counterpart(userID))
		if err != nil {
			return nil, nil, err
		}

		unread, err := s.msgRepo.CountUnread(conv.ID, userID)
		if err != nil {
			return nil, nil, err
		}

		summary := &domain.ConversationSummary{
			ID:          conv.ID,
			Subject:     conv.Subject,
			Counterpart: counterpart.ToParticipantInfo(),
			UnreadCount: unread,
			UpdatedAt:   conv.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if last, err := s.msgRepo.LastInConversation(conv.ID); err == nil && last != nil {
			summary.LastMessage = truncate(last.Content, 100)
		}
		summaries = append(summaries, summary)
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return summaries, meta, nil
}

// ViewConversation returns a thread and marks the counterpart's messages
// read. The read-marking is a blanket idempotent update, so opening the
// same thread twice changes nothing after the first open.
func (s *messagingService) ViewConversation(conversationID, viewerID int64) (*domain.ConversationDetail, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		return nil, common.ErrConversationNotFound
	}
	if !conv.HasParticipant(viewerID) {
		return nil, common.ErrNotParticipant
	}

	if err := s.msgRepo.MarkConversationRead(conversationID, viewerID); err != nil {
		return nil, fmt.Errorf("read marking failed: %w", err)
	}
	s.pushUnreadCount(viewerID)

	initiator, err := s.userRepo.FindByID(conv.InitiatorID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.FindByID(conv.RecipientID)
	if err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.FindByConversation(conversationID)
	if err != nil {
		return nil, err
	}

	participants := map[int64]*domain.ParticipantInfo{
		initiator.ID: initiator.ToParticipantInfo(),
		recipient.ID: recipient.ToParticipantInfo(),
	}

	responses := make([]*domain.MessageResponse, len(messages))
	for i, m := range messages {
		resp := m.ToResponse(participants[m.SenderID])
		if m.SenderID != viewerID {
			// reflected as read in this very response
			resp.IsRead = true
		}
		responses[i] = resp
	}

	return &domain.ConversationDetail{
		ID:        conv.ID,
		Subject:   conv.Subject,
		Initiator: initiator.ToParticipantInfo(),
		Recipient: recipient.ToParticipantInfo(),
		Messages:  responses,
		CreatedAt: conv.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: conv.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
