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

func setupAdminTest(t *testing.T) (*gorm.DB, AdminUserService, *stubPublisher) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Notification{},
		&domain.AuditLogEntry{},
	))

	publisher := &stubPublisher{}
	svc := NewAdminUserService(
		db,
		repository.NewUserRepository(db),
		repository.NewAuditLogRepository(db),
		nil,
		publisher,
	)
	return db, svc, publisher
}

func seedUser(t *testing.T, db *gorm.DB, username, role, status string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username: username, Email: username + "@example.com",
		FullName: username, PasswordHash: "x",
		Role: role, Status: status,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestApprovePendingAdvocate(t *testing.T) {
	db, svc, publisher := setupAdminTest(t)
	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	advocate := seedUser(t, db, "pending-adv", domain.RoleAdvocate, domain.StatusPending)

	result, err := svc.TransitionStatus(advocate.ID, ActionApprove, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, result.Status)

	var stored domain.User
	require.NoError(t, db.First(&stored, advocate.ID).Error)
	assert.Equal(t, domain.StatusActive, stored.Status)

	// The approved advocate is told about it
	var notifications []domain.Notification
	db.Where("user_id = ?", advocate.ID).Find(&notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationKindAccount, notifications[0].Kind)
	assert.Equal(t, "Account Approved", notifications[0].Title)

	// One audit entry records the transition
	var entries []domain.AuditLogEntry
	db.Find(&entries)
	require.Len(t, entries, 1)
	assert.Equal(t, admin.ID, entries[0].ActorID)
	assert.Equal(t, ActionApprove, entries[0].Action)
	assert.Equal(t, domain.AuditTargetUser, entries[0].TargetType)
	assert.Equal(t, "status pending -> active", entries[0].Detail)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, advocate.ID, publisher.events[0].UserID)
}

func TestApproveClientSkipsNotification(t *testing.T) {
	db, svc, publisher := setupAdminTest(t)
	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	client := seedUser(t, db, "pending-client", domain.RoleClient, domain.StatusPending)

	_, err := svc.TransitionStatus(client.ID, ActionApprove, admin.ID)
	require.NoError(t, err)

	// The approval notification is advocate-specific
	var count int64
	db.Model(&domain.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, publisher.events)
}

func TestSuspendRequiresActiveStatus(t *testing.T) {
	db, svc, _ := setupAdminTest(t)
	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	pending := seedUser(t, db, "still-pending", domain.RoleAdvocate, domain.StatusPending)

	_, err := svc.TransitionStatus(pending.ID, ActionSuspend, admin.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	// Rejected action leaves no trace
	var stored domain.User
	require.NoError(t, db.First(&stored, pending.ID).Error)
	assert.Equal(t, domain.StatusPending, stored.Status)

	var auditCount int64
	db.Model(&domain.AuditLogEntry{}).Count(&auditCount)
	assert.Equal(t, int64(0), auditCount)
}

func TestActivateFromSuspendedAndInactive(t *testing.T) {
	db, svc, _ := setupAdminTest(t)
	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	suspended := seedUser(t, db, "suspended", domain.RoleClient, domain.StatusSuspended)
	inactive := seedUser(t, db, "inactive", domain.RoleClient, domain.StatusInactive)

	result, err := svc.TransitionStatus(suspended.ID, ActionActivate, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, result.Status)

	result, err = svc.TransitionStatus(inactive.ID, ActionActivate, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, result.Status)
}

func TestSelfTransitionRejected(t *testing.T) {
	db, svc, _ := setupAdminTest(t)
	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)

	_, err := svc.TransitionStatus(admin.ID, ActionSuspend, admin.ID)
	assert.ErrorIs(t, err, common.ErrSelfTransition)
}

func TestUnknownActionRejected(t *testing.T) {
	db, svc, _ := setupAdminTest(t)
	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	target := seedUser(t, db, "target", domain.RoleClient, domain.StatusActive)

	_, err := svc.TransitionStatus(target.ID, "obliterate", admin.ID)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestListUsersFilters(t *testing.T) {
	db, svc, _ := setupAdminTest(t)
	seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	seedUser(t, db, "adv1", domain.RoleAdvocate, domain.StatusPending)
	seedUser(t, db, "adv2", domain.RoleAdvocate, domain.StatusActive)
	seedUser(t, db, "client1", domain.RoleClient, domain.StatusActive)

	users, meta, err := svc.ListUsers(domain.UserFilter{Role: domain.RoleAdvocate}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Total)
	assert.Len(t, users, 2)

	users, meta, err = svc.ListUsers(domain.UserFilter{Role: domain.RoleAdvocate, Status: domain.StatusPending}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
	assert.Equal(t, "adv1", users[0].Username)

	users, _, err = svc.ListUsers(domain.UserFilter{Keyword: "client"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "client1", users[0].Username)
}

func TestGetAuditLogFiltersByTargetType(t *testing.T) {
	db, svc, _ := setupAdminTest(t)
	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	adv := seedUser(t, db, "adv", domain.RoleAdvocate, domain.StatusPending)

	_, err := svc.TransitionStatus(adv.ID, ActionApprove, admin.ID)
	require.NoError(t, err)

	items, meta, err := svc.GetAuditLog(domain.AuditTargetUser, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
	require.Len(t, items, 1)
	assert.Equal(t, ActionApprove, items[0].Action)

	_, meta, err = svc.GetAuditLog(domain.AuditTargetInvoice, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Total)
}
