package domain

import "time"

// Case lifecycle states
const (
	CaseStatusOpen       = "open"
	CaseStatusInProgress = "in_progress"
	CaseStatusOnHold     = "on_hold"
	CaseStatusClosed     = "closed"
)

// LegalCase is a matter handled by an advocate for a client
type LegalCase struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseNumber  string     `gorm:"size:64;uniqueIndex" json:"case_number"`
	Title       string     `gorm:"size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ClientID    int64      `gorm:"index" json:"client_id"`
	AdvocateID  int64      `gorm:"index" json:"advocate_id"`
	Status      string     `gorm:"size:16;index" json:"status"`
	FilingDate  *time.Time `json:"filing_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Activities []CaseActivity `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"-"`
	Documents  []Document     `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LegalCase) TableName() string {
	return "legal_cases"
}

// Involves reports whether userID is the case's client or advocate
func (lc *LegalCase) Involves(userID int64) bool {
	return lc.ClientID == userID || lc.AdvocateID == userID
}

// CreateCaseRequest opens a new case
type CreateCaseRequest struct {
	CaseNumber  string `json:"case_number" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ClientID    int64  `json:"client_id" binding:"required"`
	AdvocateID  int64  `json:"advocate_id" binding:"required"`
	FilingDate  string `json:"filing_date,omitempty"` // YYYY-MM-DD
}

// UpdateCaseStatusRequest moves a case between states
type UpdateCaseStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note,omitempty"`
}

// CaseResponse represents a case in API responses
type CaseResponse struct {
	ID          int64  `json:"id"`
	CaseNumber  string `json:"case_number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ClientID    int64  `json:"client_id"`
	AdvocateID  int64  `json:"advocate_id"`
	Status      string `json:"status"`
	FilingDate  string `json:"filing_date,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ToResponse converts LegalCase to CaseResponse
func (lc *LegalCase) ToResponse() *CaseResponse {
	resp := &CaseResponse{
		ID:          lc.ID,
		CaseNumber:  lc.CaseNumber,
		Title:       lc.Title,
		Description: lc.Description,
		ClientID:    lc.ClientID,
		AdvocateID:  lc.AdvocateID,
		Status:      lc.Status,
		CreatedAt:   lc.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   lc.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if lc.FilingDate != nil {
		resp.FilingDate = lc.FilingDate.Format("2006-01-02")
	}
	return resp
}
