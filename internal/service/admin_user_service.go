package service

import (
	"context"
	"fmt"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/cache"
	"gorm.io/gorm"
)

// Status transition actions
const (
	ActionApprove  = "approve"
	ActionSuspend  = "suspend"
	ActionActivate = "activate"
)

// statusTransition maps an action to its precondition and result state
type statusTransition struct {
	from []string
	to   string
}

var statusTransitions = map[string]statusTransition{
	ActionApprove:  {from: []string{domain.StatusPending}, to: domain.StatusActive},
	ActionSuspend:  {from: []string{domain.StatusActive}, to: domain.StatusSuspended},
	ActionActivate: {from: []string{domain.StatusSuspended, domain.StatusInactive}, to: domain.StatusActive},
}

// AdminUserService handles admin user operations
type AdminUserService interface {
	ListUsers(filter domain.UserFilter, page, limit int) ([]*domain.UserResponse, *common.Meta, error)
	GetUser(id int64) (*domain.UserResponse, error)
	TransitionStatus(targetUserID int64, action string, actorID int64) (*domain.UserResponse, error)
	GetAuditLog(targetType string, page, limit int) ([]*domain.AuditLogItem, *common.Meta, error)
}

type adminUserService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	auditRepo *repository.AuditLogRepository
	cache     cache.Service
	publisher RealtimePublisher
}

// NewAdminUserService creates a new AdminUserService
func NewAdminUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	auditRepo *repository.AuditLogRepository,
	cacheSvc cache.Service,
	publisher RealtimePublisher,
) AdminUserService {
	return &adminUserService{
		db:        db,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		cache:     cacheSvc,
		publisher: publisher,
	}
}

// ListUsers returns a filtered, paginated user list for the admin portal
func (s *adminUserService) ListUsers(filter domain.UserFilter, page, limit int) ([]*domain.UserResponse, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.userRepo.FindAll(filter, page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return responses, meta, nil
}

// GetUser returns one user for the admin portal
func (s *adminUserService) GetUser(id int64) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	return user.ToResponse(), nil
}

// TransitionStatus applies one admin action to a user's lifecycle state.
// The precondition must hold on the current state; a mismatch rejects the
// action without touching any row. An admin cannot act on their own account.
func (s *adminUserService) TransitionStatus(targetUserID int64, action string, actorID int64) (*domain.UserResponse, error) {
	if targetUserID == actorID {
		return nil, common.ErrSelfTransition
	}

	transition, ok := statusTransitions[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", common.ErrInvalidInput, action)
	}

	target, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	var notification *domain.Notification

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Guarded update: the precondition is re-checked inside the
		// transaction so a concurrent transition cannot slip through.
		result := tx.Model(&domain.User{}).
			Where("id = ? AND status IN ?", targetUserID, transition.from).
			Update("status", transition.to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: cannot %s a %s user", common.ErrInvalidTransition, action, target.Status)
		}

		entry := &domain.AuditLogEntry{
			ActorID:    actorID,
			Action:     action,
			TargetType: domain.AuditTargetUser,
			TargetID:   targetUserID,
			Detail:     fmt.Sprintf("status %s -> %s", target.Status, transition.to),
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		if action == ActionApprove && target.Role == domain.RoleAdvocate {
			notification = &domain.Notification{
				UserID:      targetUserID,
				Kind:        domain.NotificationKindAccount,
				Title:       "Account Approved",
				Body:        "Your advocate account has been approved. You can now access all portal features.",
				ReferenceID: targetUserID,
			}
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateUser(context.Background(), targetUserID)
		_ = s.cache.InvalidateDashboard(context.Background())
	}
	if notification != nil {
		if s.cache != nil {
			_ = s.cache.InvalidateUnread(context.Background(), targetUserID)
		}
		if s.publisher != nil {
			s.publisher.Publish(targetUserID, EventNotification, notification.ToItem())
		}
	}

	target.Status = transition.to
	return target.ToResponse(), nil
}

// GetAuditLog returns paginated audit entries
func (s *adminUserService) GetAuditLog(targetType string, page, limit int) ([]*domain.AuditLogItem, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, total, err := s.auditRepo.GetList(targetType, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	items := make([]*domain.AuditLogItem, len(entries))
	for i := range entries {
		items[i] = entries[i].ToItem()
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return items, meta, nil
}
