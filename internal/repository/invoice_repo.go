package repository

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// InvoiceRepository invoice data access interface
type InvoiceRepository interface {
	Create(inv *domain.Invoice) error
	FindByID(id int64) (*domain.Invoice, error)
	ListByCase(caseID int64) ([]domain.Invoice, error)
	ListByClient(clientID int64, page, limit int) ([]domain.Invoice, int64, error)
	Summary() (*domain.FinancialSummary, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create inserts a new invoice
func (r *invoiceRepository) Create(inv *domain.Invoice) error {
	return r.db.Create(inv).Error
}

// FindByID finds an invoice by ID
func (r *invoiceRepository) FindByID(id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := r.db.First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByCase returns a case's invoices, newest first
func (r *invoiceRepository) ListByCase(caseID int64) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.Where("case_id = ?", caseID).
		Order("id DESC").
		Find(&invoices).Error
	return invoices, err
}

// ListByClient returns a client's invoices, newest first
func (r *invoiceRepository) ListByClient(clientID int64, page, limit int) ([]domain.Invoice, int64, error) {
	query := r.db.Model(&domain.Invoice{}).Where("client_id = ?", clientID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []domain.Invoice
	offset := (page - 1) * limit
	err := r.db.Where("client_id = ?", clientID).
		Order("id DESC").Offset(offset).Limit(limit).
		Find(&invoices).Error
	return invoices, total, err
}

// Summary aggregates billed, collected, and outstanding totals
func (r *invoiceRepository) Summary() (*domain.FinancialSummary, error) {
	summary := &domain.FinancialSummary{}

	type row struct {
		Status string
		Total  int64
		Count  int64
	}
	var rows []row
	err := r.db.Model(&domain.Invoice{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		switch rw.Status {
		case domain.InvoiceStatusDraft:
			summary.DraftCount = rw.Count
		case domain.InvoiceStatusIssued:
			summary.IssuedCount = rw.Count
			summary.TotalBilled += rw.Total
			summary.TotalOutstanding += rw.Total
		case domain.InvoiceStatusPaid:
			summary.PaidCount = rw.Count
			summary.TotalBilled += rw.Total
			summary.TotalCollected += rw.Total
		}
	}
	return summary, nil
}
