package domain

import "time"

// Notification kinds. Each kind fixes the meaning of ReferenceID:
// message → conversation ID, account → user ID, case → case ID,
// document → document ID, billing → invoice ID.
const (
	NotificationKindMessage  = "message"
	NotificationKindAccount  = "account"
	NotificationKindCase     = "case"
	NotificationKindDocument = "document"
	NotificationKindBilling  = "billing"
)

// Notification is a per-user notification record, written as a side effect
// of sends, status changes, and case events. Fire-and-forget: no delivery
// guarantee beyond the row itself.
type Notification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"index" json:"user_id"`
	Kind        string    `gorm:"size:16;index" json:"kind"`
	Title       string    `gorm:"size:255" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`
	ReferenceID int64     `json:"reference_id,omitempty"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationItem represents a single notification in list responses
type NotificationItem struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	ReferenceID int64  `json:"reference_id,omitempty"`
	IsRead      bool   `json:"is_read"`
	CreatedAt   string `json:"created_at"`
}

// ToItem converts Notification to NotificationItem
func (n *Notification) ToItem() *NotificationItem {
	return &NotificationItem{
		ID:          n.ID,
		Kind:        n.Kind,
		Title:       n.Title,
		Body:        n.Body,
		ReferenceID: n.ReferenceID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// NotificationSummaryResponse represents unread count response
type NotificationSummaryResponse struct {
	TotalUnread int64 `json:"total_unread"`
}
