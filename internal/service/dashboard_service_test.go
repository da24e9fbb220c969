package service

import (
	"testing"

	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupDashboardTest(t *testing.T) (*gorm.DB, DashboardService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.LegalCase{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.Invoice{},
	))

	svc := NewDashboardService(
		repository.NewUserRepository(db),
		repository.NewCaseRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewMessageRepository(db),
		nil,
	)
	return db, svc
}

func TestDashboardSummaryAggregatesAllSections(t *testing.T) {
	db, svc := setupDashboardTest(t)

	seedUser(t, db, "admin1", domain.RoleAdmin, domain.StatusActive)
	seedUser(t, db, "alan", domain.RoleAdvocate, domain.StatusActive)
	seedUser(t, db, "pete", domain.RoleAdvocate, domain.StatusPending)
	seedUser(t, db, "carol", domain.RoleClient, domain.StatusActive)
	seedUser(t, db, "sam", domain.RoleClient, domain.StatusSuspended)

	require.NoError(t, db.Create(&domain.LegalCase{
		CaseNumber: "CF-10", Title: "One", ClientID: 4, AdvocateID: 2,
		Status: domain.CaseStatusOpen,
	}).Error)
	require.NoError(t, db.Create(&domain.LegalCase{
		CaseNumber: "CF-11", Title: "Two", ClientID: 4, AdvocateID: 2,
		Status: domain.CaseStatusInProgress,
	}).Error)

	conv := &domain.Conversation{
		InitiatorID: 4, RecipientID: 2, PairKey: domain.MakePairKey(4, 2),
	}
	require.NoError(t, db.Create(conv).Error)
	require.NoError(t, db.Create(&domain.Message{
		ConversationID: conv.ID, SenderID: 4, Content: "unread one",
	}).Error)
	require.NoError(t, db.Create(&domain.Message{
		ConversationID: conv.ID, SenderID: 4, Content: "unread two",
	}).Error)
	require.NoError(t, db.Create(&domain.Message{
		ConversationID: conv.ID, SenderID: 2, Content: "already seen", IsRead: true,
	}).Error)

	require.NoError(t, db.Create(&domain.Invoice{
		CaseID: 1, ClientID: 4, Amount: 120000, Status: domain.InvoiceStatusIssued,
	}).Error)
	require.NoError(t, db.Create(&domain.Invoice{
		CaseID: 1, ClientID: 4, Amount: 30000, Status: domain.InvoiceStatusPaid,
	}).Error)

	summary, err := svc.GetSummary()
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.UsersByStatus[domain.StatusActive])
	assert.Equal(t, int64(1), summary.UsersByStatus[domain.StatusPending])
	assert.Equal(t, int64(1), summary.UsersByStatus[domain.StatusSuspended])
	assert.Equal(t, int64(1), summary.UsersByRole[domain.RoleAdmin])
	assert.Equal(t, int64(2), summary.UsersByRole[domain.RoleAdvocate])
	assert.Equal(t, int64(2), summary.UsersByRole[domain.RoleClient])

	assert.Equal(t, int64(1), summary.CasesByStatus[domain.CaseStatusOpen])
	assert.Equal(t, int64(1), summary.CasesByStatus[domain.CaseStatusInProgress])

	assert.Equal(t, int64(2), summary.UnreadMessages)

	require.NotNil(t, summary.Financial)
	assert.Equal(t, int64(150000), summary.Financial.TotalBilled)
	assert.Equal(t, int64(30000), summary.Financial.TotalCollected)
	assert.Equal(t, int64(120000), summary.Financial.TotalOutstanding)
}

func TestDashboardSummaryEmptyDatabase(t *testing.T) {
	_, svc := setupDashboardTest(t)

	summary, err := svc.GetSummary()
	require.NoError(t, err)
	assert.Empty(t, summary.UsersByStatus)
	assert.Empty(t, summary.CasesByStatus)
	assert.Equal(t, int64(0), summary.UnreadMessages)
	assert.Equal(t, int64(0), summary.Financial.TotalBilled)
}
