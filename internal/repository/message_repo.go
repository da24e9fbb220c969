package repository

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	FindByConversation(conversationID int64) ([]*domain.Message, error)
	MarkConversationRead(conversationID, readerID int64) error
	LastInConversation(conversationID int64) (*domain.Message, error)
	CountUnread(conversationID, userID int64) (int64, error)
	CountUnreadForUser(userID int64) (int64, error)
	CountUnreadAll() (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// FindByConversation returns a conversation's messages in chronological order
func (r *messageRepository) FindByConversation(conversationID int64) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkConversationRead flags every counterpart message as read. The blanket
// update is idempotent; re-opening a thread is a no-op.
func (r *messageRepository) MarkConversationRead(conversationID, readerID int64) error {
	return r.db.Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true).Error
}

// LastInConversation returns the newest message of a conversation, nil if empty
func (r *messageRepository) LastInConversation(conversationID int64) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// CountUnread counts messages in one conversation not yet read by userID
func (r *messageRepository) CountUnread(conversationID, userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}

// CountUnreadAll counts unread messages across the whole system
func (r *messageRepository) CountUnreadAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

// CountUnreadForUser counts unread messages across all of a user's conversations
func (r *messageRepository) CountUnreadForUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.initiator_id = ? OR conversations.recipient_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
