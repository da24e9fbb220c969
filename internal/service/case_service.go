package service

import (
	"fmt"
	"time"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"gorm.io/gorm"
)

// caseStatusGraph lists the reachable states from each case status
var caseStatusGraph = map[string][]string{
	domain.CaseStatusOpen:       {domain.CaseStatusInProgress, domain.CaseStatusOnHold, domain.CaseStatusClosed},
	domain.CaseStatusInProgress: {domain.CaseStatusOnHold, domain.CaseStatusClosed},
	domain.CaseStatusOnHold:     {domain.CaseStatusInProgress, domain.CaseStatusClosed},
	domain.CaseStatusClosed:     {domain.CaseStatusOpen},
}

// CaseService business logic for legal cases
type CaseService interface {
	CreateCase(creatorID int64, creatorRole string, req *domain.CreateCaseRequest) (*domain.CaseResponse, error)
	GetCase(id, viewerID int64, viewerRole string) (*domain.CaseResponse, error)
	ListCases(viewerID int64, viewerRole string, page, limit int) ([]*domain.CaseResponse, *common.Meta, error)
	UpdateStatus(id, actorID int64, actorRole string, req *domain.UpdateCaseStatusRequest) (*domain.CaseResponse, error)
	RecordActivity(caseID, userID int64, userRole string, req *domain.RecordActivityRequest) (*domain.CaseActivityItem, error)
	ListActivities(caseID, viewerID int64, viewerRole string) ([]*domain.CaseActivityItem, error)
}

type caseService struct {
	db           *gorm.DB
	caseRepo     repository.CaseRepository
	activityRepo *repository.CaseActivityRepository
	userRepo     repository.UserRepository
}

// NewCaseService creates a new CaseService
func NewCaseService(
	db *gorm.DB,
	caseRepo repository.CaseRepository,
	activityRepo *repository.CaseActivityRepository,
	userRepo repository.UserRepository,
) CaseService {
	return &caseService{
		db:           db,
		caseRepo:     caseRepo,
		activityRepo: activityRepo,
		userRepo:     userRepo,
	}
}

// CreateCase opens a new case. Admins and advocates can create cases;
// an advocate can only assign the case to themselves.
func (s *caseService) CreateCase(creatorID int64, creatorRole string, req *domain.CreateCaseRequest) (*domain.CaseResponse, error) {
	if creatorRole != domain.RoleAdmin && creatorRole != domain.RoleAdvocate {
		return nil, common.ErrForbidden
	}
	if creatorRole == domain.RoleAdvocate && req.AdvocateID != creatorID {
		return nil, common.ErrForbidden
	}

	client, err := s.userRepo.FindByID(req.ClientID)
	if err != nil || client.Role != domain.RoleClient {
		return nil, fmt.Errorf("%w: client_id must reference a client account", common.ErrInvalidInput)
	}
	advocate, err := s.userRepo.FindByID(req.AdvocateID)
	if err != nil || advocate.Role != domain.RoleAdvocate {
		return nil, fmt.Errorf("%w: advocate_id must reference an advocate account", common.ErrInvalidInput)
	}
	if advocate.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: advocate account is not active", common.ErrInvalidInput)
	}

	exists, err := s.caseRepo.ExistsByCaseNumber(req.CaseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: case number already registered", common.ErrInvalidInput)
	}

	legalCase := &domain.LegalCase{
		CaseNumber:  req.CaseNumber,
		Title:       req.Title,
		Description: req.Description,
		ClientID:    req.ClientID,
		AdvocateID:  req.AdvocateID,
		Status:      domain.CaseStatusOpen,
	}
	if req.FilingDate != "" {
		filed, err := time.Parse("2006-01-02", req.FilingDate)
		if err != nil {
			return nil, fmt.Errorf("%w: filing_date must be YYYY-MM-DD", common.ErrInvalidInput)
		}
		legalCase.FilingDate = &filed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(legalCase).Error; err != nil {
			return err
		}
		activity := &domain.CaseActivity{
			CaseID:       legalCase.ID,
			UserID:       creatorID,
			ActivityType: domain.ActivityUpdate,
			Description:  "Case opened",
			ActivityDate: time.Now(),
		}
		return tx.Create(activity).Error
	})
	if err != nil {
		return nil, err
	}

	return legalCase.ToResponse(), nil
}

// GetCase returns one case, visible only to its participants and admins
func (s *caseService) GetCase(id, viewerID int64, viewerRole string) (*domain.CaseResponse, error) {
	legalCase, err := s.loadAuthorized(id, viewerID, viewerRole)
	if err != nil {
		return nil, err
	}
	return legalCase.ToResponse(), nil
}

// ListCases returns cases scoped by role: everything for admins, own
// cases for advocates and clients
func (s *caseService) ListCases(viewerID int64, viewerRole string, page, limit int) ([]*domain.CaseResponse, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var (
		cases []*domain.LegalCase
		total int64
		err   error
	)
	if viewerRole == domain.RoleAdmin {
		cases, total, err = s.caseRepo.ListAll(page, limit)
	} else {
		cases, total, err = s.caseRepo.ListForUser(viewerID, page, limit)
	}
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.CaseResponse, len(cases))
	for i, c := range cases {
		responses[i] = c.ToResponse()
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return responses, meta, nil
}

// UpdateStatus moves a case along the status graph and records the change
// as a case activity. Clients cannot change case status.
func (s *caseService) UpdateStatus(id, actorID int64, actorRole string, req *domain.UpdateCaseStatusRequest) (*domain.CaseResponse, error) {
	if actorRole == domain.RoleClient {
		return nil, common.ErrForbidden
	}

	legalCase, err := s.loadAuthorized(id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if !statusReachable(legalCase.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot move case from %s to %s",
			common.ErrInvalidTransition, legalCase.Status, req.Status)
	}

	description := fmt.Sprintf("Status changed from %s to %s", legalCase.Status, req.Status)
	if req.Note != "" {
		description += ": " + req.Note
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.LegalCase{}).
			Where("id = ?", id).
			Update("status", req.Status).Error; err != nil {
			return err
		}
		activity := &domain.CaseActivity{
			CaseID:       id,
			UserID:       actorID,
			ActivityType: domain.ActivityStatusChange,
			Description:  description,
			ActivityDate: time.Now(),
		}
		return tx.Create(activity).Error
	})
	if err != nil {
		return nil, err
	}

	legalCase.Status = req.Status
	return legalCase.ToResponse(), nil
}

// RecordActivity appends an activity entry to a case
func (s *caseService) RecordActivity(caseID, userID int64, userRole string, req *domain.RecordActivityRequest) (*domain.CaseActivityItem, error) {
	if !domain.IsValidActivityType(req.ActivityType) {
		return nil, fmt.Errorf("%w: unknown activity type %q", common.ErrInvalidInput, req.ActivityType)
	}

	if _, err := s.loadAuthorized(caseID, userID, userRole); err != nil {
		return nil, err
	}

	activityDate := time.Now()
	if req.ActivityDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ActivityDate)
		if err != nil {
			return nil, fmt.Errorf("%w: activity_date must be YYYY-MM-DD", common.ErrInvalidInput)
		}
		activityDate = parsed
	}

	activity := &domain.CaseActivity{
		CaseID:       caseID,
		UserID:       userID,
		ActivityType: req.ActivityType,
		Description:  req.Description,
		ActivityDate: activityDate,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		return nil, err
	}

	return activity.ToItem(), nil
}

// ListActivities returns a case's activity log
func (s *caseService) ListActivities(caseID, viewerID int64, viewerRole string) ([]*domain.CaseActivityItem, error) {
	if _, err := s.loadAuthorized(caseID, viewerID, viewerRole); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByCase(caseID)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.CaseActivityItem, len(activities))
	for i := range activities {
		items[i] = activities[i].ToItem()
	}
	return items, nil
}

// loadAuthorized fetches a case and checks the viewer may see it
func (s *caseService) loadAuthorized(id, viewerID int64, viewerRole string) (*domain.LegalCase, error) {
	legalCase, err := s.caseRepo.FindByID(id)
	if err != nil {
		return nil, common.ErrCaseNotFound
	}
	if viewerRole != domain.RoleAdmin && !legalCase.Involves(viewerID) {
		return nil, common.ErrForbidden
	}
	return legalCase, nil
}

func statusReachable(from, to string) bool {
	for _, s := range caseStatusGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}
