package domain

import "time"

// Message is one entry of a conversation's append-only log.
// IsRead flips when the counterpart opens the thread; rows are never deleted.
type Message struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64     `gorm:"index" json:"conversation_id"`
	SenderID       int64     `gorm:"index" json:"sender_id"`
	Content        string    `gorm:"type:text" json:"content"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID        int64            `json:"id"`
	Sender    *ParticipantInfo `json:"sender"`
	Content   string           `json:"content"`
	IsRead    bool             `json:"is_read"`
	CreatedAt string           `json:"created_at"`
}

// ToResponse converts Message to MessageResponse with sender metadata
func (m *Message) ToResponse(sender *ParticipantInfo) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		Sender:    sender,
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
