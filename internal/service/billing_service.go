package service

import (
	"context"
	"fmt"
	"time"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/cache"
	"gorm.io/gorm"
)

// BillingService business logic for invoices and financial summaries
type BillingService interface {
	CreateInvoice(actorID int64, req *domain.CreateInvoiceRequest) (*domain.InvoiceResponse, error)
	ListByCase(caseID, viewerID int64, viewerRole string) ([]*domain.InvoiceResponse, error)
	ListForClient(clientID int64, page, limit int) ([]*domain.InvoiceResponse, *common.Meta, error)
	MarkPaid(invoiceID, actorID int64) (*domain.InvoiceResponse, error)
	Summary() (*domain.FinancialSummary, error)
}

type billingService struct {
	db          *gorm.DB
	invoiceRepo repository.InvoiceRepository
	caseRepo    repository.CaseRepository
	cache       cache.Service
}

// NewBillingService creates a new BillingService
func NewBillingService(
	db *gorm.DB,
	invoiceRepo repository.InvoiceRepository,
	caseRepo repository.CaseRepository,
	cacheSvc cache.Service,
) BillingService {
	return &billingService{
		db:          db,
		invoiceRepo: invoiceRepo,
		caseRepo:    caseRepo,
		cache:       cacheSvc,
	}
}

// CreateInvoice issues an invoice against a case. The client is derived
// from the case, never from the request.
func (s *billingService) CreateInvoice(actorID int64, req *domain.CreateInvoiceRequest) (*domain.InvoiceResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrInvalidInput)
	}

	legalCase, err := s.caseRepo.FindByID(req.CaseID)
	if err != nil {
		return nil, common.ErrCaseNotFound
	}

	now := time.Now()
	invoice := &domain.Invoice{
		CaseID:   req.CaseID,
		ClientID: legalCase.ClientID,
		Amount:   req.Amount,
		Status:   domain.InvoiceStatusIssued,
		IssuedAt: &now,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date must be YYYY-MM-DD", common.ErrInvalidInput)
		}
		invoice.DueDate = &due
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		entry := &domain.AuditLogEntry{
			ActorID:    actorID,
			Action:     "invoice_issued",
			TargetType: domain.AuditTargetInvoice,
			TargetID:   invoice.ID,
			Detail:     fmt.Sprintf("case %d, amount %d", invoice.CaseID, invoice.Amount),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary()
	return invoice.ToResponse(), nil
}

// ListByCase returns a case's invoices, visible to case participants and admins
func (s *billingService) ListByCase(caseID, viewerID int64, viewerRole string) ([]*domain.InvoiceResponse, error) {
	legalCase, err := s.caseRepo.FindByID(caseID)
	if err != nil {
		return nil, common.ErrCaseNotFound
	}
	if viewerRole != domain.RoleAdmin && !legalCase.Involves(viewerID) {
		return nil, common.ErrForbidden
	}

	invoices, err := s.invoiceRepo.ListByCase(caseID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = invoices[i].ToResponse()
	}
	return responses, nil
}

// ListForClient returns a client's own invoices
func (s *billingService) ListForClient(clientID int64, page, limit int) ([]*domain.InvoiceResponse, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	invoices, total, err := s.invoiceRepo.ListByClient(clientID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = invoices[i].ToResponse()
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return responses, meta, nil
}

// MarkPaid settles an issued invoice. Only issued invoices can be paid.
func (s *billingService) MarkPaid(invoiceID, actorID int64) (*domain.InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		return nil, common.ErrInvoiceNotFound
	}
	if invoice.Status != domain.InvoiceStatusIssued {
		return nil, fmt.Errorf("%w: invoice is %s, not issued", common.ErrInvalidTransition, invoice.Status)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Invoice{}).
			Where("id = ? AND status = ?", invoiceID, domain.InvoiceStatusIssued).
			Updates(map[string]interface{}{
				"status":  domain.InvoiceStatusPaid,
				"paid_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrInvalidTransition
		}
		entry := &domain.AuditLogEntry{
			ActorID:    actorID,
			Action:     "invoice_paid",
			TargetType: domain.AuditTargetInvoice,
			TargetID:   invoiceID,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary()

	invoice.Status = domain.InvoiceStatusPaid
	invoice.PaidAt = &now
	return invoice.ToResponse(), nil
}

// Summary aggregates billed/collected/outstanding totals for the dashboard
func (s *billingService) Summary() (*domain.FinancialSummary, error) {
	return s.invoiceRepo.Summary()
}

func (s *billingService) invalidateSummary() {
	if s.cache != nil {
		_ = s.cache.InvalidateDashboard(context.Background())
	}
}
