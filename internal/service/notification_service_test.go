package service

import (
	"testing"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupNotificationTest(t *testing.T) (*gorm.DB, NotificationService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Notification{}))

	svc := NewNotificationService(repository.NewNotificationRepository(db), nil)
	return db, svc
}

func seedNotification(t *testing.T, db *gorm.DB, userID int64, title string, read bool) *domain.Notification {
	t.Helper()
	n := &domain.Notification{
		UserID: userID,
		Kind:   domain.NotificationKindMessage,
		Title:  title,
		IsRead: read,
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestMarkAsReadOwnership(t *testing.T) {
	db, svc := setupNotificationTest(t)

	mine := seedNotification(t, db, 1, "for user one", false)
	theirs := seedNotification(t, db, 2, "for user two", false)

	// Another user's notification is untouchable
	err := svc.MarkAsRead(theirs.ID, 1)
	assert.ErrorIs(t, err, common.ErrForbidden)

	var check domain.Notification
	require.NoError(t, db.First(&check, theirs.ID).Error)
	assert.False(t, check.IsRead)

	// Unknown IDs are reported as missing, not forbidden
	err = svc.MarkAsRead(9999, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The owner can mark their own
	require.NoError(t, svc.MarkAsRead(mine.ID, 1))
	check = domain.Notification{}
	require.NoError(t, db.First(&check, mine.ID).Error)
	assert.True(t, check.IsRead)
}

func TestMarkAllAsReadScopedToUser(t *testing.T) {
	db, svc := setupNotificationTest(t)

	seedNotification(t, db, 1, "one", false)
	seedNotification(t, db, 1, "two", false)
	seedNotification(t, db, 2, "other user", false)

	require.NoError(t, svc.MarkAllAsRead(1))

	var unreadMine, unreadOther int64
	db.Model(&domain.Notification{}).Where("user_id = ? AND is_read = ?", 1, false).Count(&unreadMine)
	db.Model(&domain.Notification{}).Where("user_id = ? AND is_read = ?", 2, false).Count(&unreadOther)
	assert.Equal(t, int64(0), unreadMine)
	assert.Equal(t, int64(1), unreadOther)
}

func TestNotificationSummaryCountsUnread(t *testing.T) {
	db, svc := setupNotificationTest(t)

	seedNotification(t, db, 1, "one", false)
	seedNotification(t, db, 1, "two", false)
	seedNotification(t, db, 1, "seen", true)
	seedNotification(t, db, 2, "other", false)

	summary, err := svc.GetSummary(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalUnread)
}

func TestNotificationListIsScopedAndPaginated(t *testing.T) {
	db, svc := setupNotificationTest(t)

	for i := 0; i < 3; i++ {
		seedNotification(t, db, 1, "mine", false)
	}
	seedNotification(t, db, 2, "other", false)

	items, meta, err := svc.GetList(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), meta.Total)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "mine", item.Title)
	}
}
