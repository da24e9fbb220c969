package domain

import (
	"fmt"
	"time"
)

// Conversation is a persistent thread between exactly two users.
// PairKey normalizes the participant pair order-independently and carries a
// unique index, so two racing first-contact sends cannot create two threads.
type Conversation struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	InitiatorID int64     `gorm:"index" json:"initiator_id"`
	RecipientID int64     `gorm:"index" json:"recipient_id"`
	PairKey     string    `gorm:"size:64;uniqueIndex" json:"-"`
	Subject     string    `gorm:"size:255" json:"subject"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// MakePairKey returns the order-independent key for a participant pair
func MakePairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Counterpart returns the other participant's ID
func (c *Conversation) Counterpart(userID int64) int64 {
	if c.InitiatorID == userID {
		return c.RecipientID
	}
	return c.InitiatorID
}

// HasParticipant reports whether userID belongs to the conversation
func (c *Conversation) HasParticipant(userID int64) bool {
	return c.InitiatorID == userID || c.RecipientID == userID
}

// StartConversationRequest begins or continues a thread with another user
type StartConversationRequest struct {
	RecipientID int64  `json:"recipient_id" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// ReplyRequest appends a message to an existing conversation
type ReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

// ConversationSummary is one row of the conversation inbox
type ConversationSummary struct {
	ID          int64            `json:"id"`
	Subject     string           `json:"subject"`
	Counterpart *ParticipantInfo `json:"counterpart"`
	LastMessage string           `json:"last_message,omitempty"`
	UnreadCount int64            `json:"unread_count"`
	UpdatedAt   string           `json:"updated_at"`
}

// ConversationDetail is a full thread view
type ConversationDetail struct {
	ID          int64              `json:"id"`
	Subject     string             `json:"subject"`
	Initiator   *ParticipantInfo   `json:"initiator"`
	Recipient   *ParticipantInfo   `json:"recipient"`
	Messages    []*MessageResponse `json:"messages"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}
