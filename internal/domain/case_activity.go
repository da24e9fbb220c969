package domain

import "time"

// Case activity types
const (
	ActivityUpdate       = "update"
	ActivityDocument     = "document"
	ActivityHearing      = "hearing"
	ActivityNote         = "note"
	ActivityStatusChange = "status_change"
)

// CaseActivity is a case-scoped event log entry. Account-level actions do
// not belong here; see AuditLogEntry.
type CaseActivity struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID       int64     `gorm:"index" json:"case_id"`
	UserID       int64     `gorm:"index" json:"user_id"`
	ActivityType string    `gorm:"size:16;index" json:"activity_type"`
	Description  string    `gorm:"size:512" json:"description"`
	ActivityDate time.Time `json:"activity_date"`
}

func (CaseActivity) TableName() string {
	return "case_activities"
}

// RecordActivityRequest appends an activity to a case
type RecordActivityRequest struct {
	ActivityType string `json:"activity_type" binding:"required"`
	Description  string `json:"description" binding:"required"`
	ActivityDate string `json:"activity_date,omitempty"` // YYYY-MM-DD, defaults to today
}

// CaseActivityItem represents an activity in list responses
type CaseActivityItem struct {
	ID           int64  `json:"id"`
	CaseID       int64  `json:"case_id"`
	UserID       int64  `json:"user_id"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
	ActivityDate string `json:"activity_date"`
}

// ToItem converts CaseActivity to CaseActivityItem
func (a *CaseActivity) ToItem() *CaseActivityItem {
	return &CaseActivityItem{
		ID:           a.ID,
		CaseID:       a.CaseID,
		UserID:       a.UserID,
		ActivityType: a.ActivityType,
		Description:  a.Description,
		ActivityDate: a.ActivityDate.Format("2006-01-02"),
	}
}

// IsValidActivityType reports whether t is a recognized activity type
func IsValidActivityType(t string) bool {
	switch t {
	case ActivityUpdate, ActivityDocument, ActivityHearing, ActivityNote, ActivityStatusChange:
		return true
	}
	return false
}
