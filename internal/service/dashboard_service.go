package service

import (
	"context"

	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/cache"
)

// DashboardSummary aggregates the admin landing-page numbers
type DashboardSummary struct {
	UsersByStatus  map[string]int64         `json:"users_by_status"`
	UsersByRole    map[string]int64         `json:"users_by_role"`
	CasesByStatus  map[string]int64         `json:"cases_by_status"`
	UnreadMessages int64                    `json:"unread_messages"`
	Financial      *domain.FinancialSummary `json:"financial"`
}

// DashboardService aggregates admin dashboard data
type DashboardService interface {
	GetSummary() (*DashboardSummary, error)
}

type dashboardService struct {
	userRepo    repository.UserRepository
	caseRepo    repository.CaseRepository
	invoiceRepo repository.InvoiceRepository
	msgRepo     repository.MessageRepository
	cache       cache.Service
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userRepo repository.UserRepository,
	caseRepo repository.CaseRepository,
	invoiceRepo repository.InvoiceRepository,
	msgRepo repository.MessageRepository,
	cacheSvc cache.Service,
) DashboardService {
	return &dashboardService{
		userRepo:    userRepo,
		caseRepo:    caseRepo,
		invoiceRepo: invoiceRepo,
		msgRepo:     msgRepo,
		cache:       cacheSvc,
	}
}

// GetSummary returns the aggregate counts, served from Redis when warm
func (s *dashboardService) GetSummary() (*DashboardSummary, error) {
	ctx := context.Background()

	if s.cache != nil {
		var cached DashboardSummary
		if err := s.cache.GetDashboard(ctx, &cached); err == nil {
			return &cached, nil
		}
	}

	usersByStatus, err := s.userRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	usersByRole, err := s.userRepo.CountByRole()
	if err != nil {
		return nil, err
	}
	casesByStatus, err := s.caseRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	unreadMessages, err := s.msgRepo.CountUnreadAll()
	if err != nil {
		return nil, err
	}
	financial, err := s.invoiceRepo.Summary()
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		UsersByStatus:  usersByStatus,
		UsersByRole:    usersByRole,
		CasesByStatus:  casesByStatus,
		UnreadMessages: unreadMessages,
		Financial:      financial,
	}

	if s.cache != nil {
		_ = s.cache.SetDashboard(ctx, summary)
	}
	return summary, nil
}
