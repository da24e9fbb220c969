package repository

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// ConversationRepository conversation data access interface
type ConversationRepository interface {
	Create(conv *domain.Conversation) error
	FindByID(id int64) (*domain.Conversation, error)
	FindByPairKey(pairKey string) (*domain.Conversation, error)
	ListForUser(userID int64, page, limit int) ([]*domain.Conversation, int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Create inserts a new conversation. The unique index on pair_key makes a
// racing duplicate insert fail with gorm.ErrDuplicatedKey.
func (r *conversationRepository) Create(conv *domain.Conversation) error {
	return r.db.Create(conv).Error
}

// FindByID finds a conversation by ID
func (r *conversationRepository) FindByID(id int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByPairKey looks up the conversation for an order-normalized pair
func (r *conversationRepository) FindByPairKey(pairKey string) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.Where("pair_key = ?", pairKey).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListForUser returns a user's conversations, most recently updated first
func (r *conversationRepository) ListForUser(userID int64, page, limit int) ([]*domain.Conversation, int64, error) {
	var total int64
	query := r.db.Model(&domain.Conversation{}).
		Where("initiator_id = ? OR recipient_id = ?", userID, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []*domain.Conversation
	offset := (page - 1) * limit
	err := r.db.Where("initiator_id = ? OR recipient_id = ?", userID, userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&convs).Error
	return convs, total, err
}
