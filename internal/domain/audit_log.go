package domain

import "time"

// Audit target types
const (
	AuditTargetUser    = "user"
	AuditTargetCase    = "case"
	AuditTargetInvoice = "invoice"
)

// AuditLogEntry records an administrative action against a target entity.
// Status changes land here instead of being shoehorned into case activity.
type AuditLogEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID    int64     `gorm:"index" json:"actor_id"`
	Action     string    `gorm:"size:64" json:"action"`
	TargetType string    `gorm:"size:16;index" json:"target_type"`
	TargetID   int64     `gorm:"index" json:"target_id"`
	Detail     string    `gorm:"size:512" json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

// AuditLogItem represents an audit entry in list responses
type AuditLogItem struct {
	ID         int64  `json:"id"`
	ActorID    int64  `json:"actor_id"`
	Action     string `json:"action"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ToItem converts AuditLogEntry to AuditLogItem
func (e *AuditLogEntry) ToItem() *AuditLogItem {
	return &AuditLogItem{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
