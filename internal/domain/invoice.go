package domain

import "time"

// Invoice states
const (
	InvoiceStatusDraft  = "draft"
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

// Invoice bills a client for work on a case. Amounts are stored in cents.
type Invoice struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID    int64      `gorm:"index" json:"case_id"`
	ClientID  int64      `gorm:"index" json:"client_id"`
	Amount    int64      `json:"amount"`
	Status    string     `gorm:"size:16;index" json:"status"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// CreateInvoiceRequest issues a new invoice against a case
type CreateInvoiceRequest struct {
	CaseID  int64  `json:"case_id" binding:"required"`
	Amount  int64  `json:"amount" binding:"required"`
	DueDate string `json:"due_date,omitempty"` // YYYY-MM-DD
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID        int64  `json:"id"`
	CaseID    int64  `json:"case_id"`
	ClientID  int64  `json:"client_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	IssuedAt  string `json:"issued_at,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	PaidAt    string `json:"paid_at,omitempty"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:       i.ID,
		CaseID:   i.CaseID,
		ClientID: i.ClientID,
		Amount:   i.Amount,
		Status:   i.Status,
	}
	if i.IssuedAt != nil {
		resp.IssuedAt = i.IssuedAt.Format("2006-01-02 15:04:05")
	}
	if i.DueDate != nil {
		resp.DueDate = i.DueDate.Format("2006-01-02")
	}
	if i.PaidAt != nil {
		resp.PaidAt = i.PaidAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// FinancialSummary aggregates invoice totals for the admin dashboard.
// Amounts in cents.
type FinancialSummary struct {
	TotalBilled      int64 `json:"total_billed"`
	TotalCollected   int64 `json:"total_collected"`
	TotalOutstanding int64 `json:"total_outstanding"`
	DraftCount       int64 `json:"draft_count"`
	IssuedCount      int64 `json:"issued_count"`
	PaidCount        int64 `json:"paid_count"`
}
