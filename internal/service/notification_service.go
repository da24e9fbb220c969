package service

import (
	"context"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/cache"
)

// NotificationService business logic for notifications
type NotificationService interface {
	GetList(userID int64, page, limit int) ([]*domain.NotificationItem, *common.Meta, error)
	GetSummary(userID int64) (*domain.NotificationSummaryResponse, error)
	MarkAsRead(id, userID int64) error
	MarkAllAsRead(userID int64) error
}

type notificationService struct {
	repo  *repository.NotificationRepository
	cache cache.Service
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo *repository.NotificationRepository, cacheSvc cache.Service) NotificationService {
	return &notificationService{repo: repo, cache: cacheSvc}
}

// GetList returns paginated notifications for a user
func (s *notificationService) GetList(userID int64, page, limit int) ([]*domain.NotificationItem, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	notifications, total, err := s.repo.GetList(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	items := make([]*domain.NotificationItem, len(notifications))
	for i := range notifications {
		items[i] = notifications[i].ToItem()
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return items, meta, nil
}

// GetSummary returns the unread count, served from Redis when warm
func (s *notificationService) GetSummary(userID int64) (*domain.NotificationSummaryResponse, error) {
	ctx := context.Background()

	// Cache miss or Redis trouble both degrade to a DB count
	if s.cache != nil {
		if count, err := s.cache.GetUnreadNotifications(ctx, userID); err == nil {
			return &domain.NotificationSummaryResponse{TotalUnread: count}, nil
		}
	}

	count, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetUnreadNotifications(ctx, userID, count)
	}

	return &domain.NotificationSummaryResponse{TotalUnread: count}, nil
}

// MarkAsRead marks one notification as read. Users can only touch their own.
func (s *notificationService) MarkAsRead(id, userID int64) error {
	notification, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if notification == nil {
		return common.ErrNotFound
	}
	if notification.UserID != userID {
		return common.ErrForbidden
	}

	if err := s.repo.MarkAsRead(id); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateUnread(context.Background(), userID)
	}
	return nil
}

// MarkAllAsRead marks every unread notification of a user as read
func (s *notificationService) MarkAllAsRead(userID int64) error {
	if err := s.repo.MarkAllAsRead(userID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateUnread(context.Background(), userID)
	}
	return nil
}
