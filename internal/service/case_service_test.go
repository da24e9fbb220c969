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

func setupCaseTest(t *testing.T) (*gorm.DB, CaseService, *domain.User, *domain.User, *domain.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.LegalCase{},
		&domain.CaseActivity{},
	))

	admin := seedUser(t, db, "admin", domain.RoleAdmin, domain.StatusActive)
	advocate := seedUser(t, db, "adv", domain.RoleAdvocate, domain.StatusActive)
	client := seedUser(t, db, "client", domain.RoleClient, domain.StatusActive)

	svc := NewCaseService(
		db,
		repository.NewCaseRepository(db),
		repository.NewCaseActivityRepository(db),
		repository.NewUserRepository(db),
	)
	return db, svc, admin, advocate, client
}

func createCaseReq(client, advocate *domain.User) *domain.CreateCaseRequest {
	return &domain.CreateCaseRequest{
		CaseNumber: "CF-2026-001",
		Title:      "Contract Dispute",
		ClientID:   client.ID,
		AdvocateID: advocate.ID,
		FilingDate: "2026-08-01",
	}
}

func TestCreateCaseWritesOpeningActivity(t *testing.T) {
	db, svc, admin, advocate, client := setupCaseTest(t)

	result, err := svc.CreateCase(admin.ID, domain.RoleAdmin, createCaseReq(client, advocate))
	require.NoError(t, err)
	assert.Equal(t, domain.CaseStatusOpen, result.Status)
	assert.Equal(t, "2026-08-01", result.FilingDate)

	var activities []domain.CaseActivity
	db.Where("case_id = ?", result.ID).Find(&activities)
	require.Len(t, activities, 1)
	assert.Equal(t, "Case opened", activities[0].Description)
	assert.Equal(t, domain.ActivityUpdate, activities[0].ActivityType)
}

func TestCreateCaseAdvocateSelfAssignOnly(t *testing.T) {
	db, svc, _, advocate, client := setupCaseTest(t)
	other := seedUser(t, db, "other-adv", domain.RoleAdvocate, domain.StatusActive)

	req := createCaseReq(client, other)
	_, err := svc.CreateCase(advocate.ID, domain.RoleAdvocate, req)
	assert.ErrorIs(t, err, common.ErrForbidden)

	req = createCaseReq(client, advocate)
	_, err = svc.CreateCase(advocate.ID, domain.RoleAdvocate, req)
	assert.NoError(t, err)
}

func TestCreateCaseClientForbidden(t *testing.T) {
	_, svc, _, advocate, client := setupCaseTest(t)

	_, err := svc.CreateCase(client.ID, domain.RoleClient, createCaseReq(client, advocate))
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestCreateCaseValidatesParties(t *testing.T) {
	db, svc, admin, advocate, client := setupCaseTest(t)

	// A pending advocate cannot be assigned
	pendingAdv := seedUser(t, db, "pending-adv", domain.RoleAdvocate, domain.StatusPending)
	req := createCaseReq(client, pendingAdv)
	_, err := svc.CreateCase(admin.ID, domain.RoleAdmin, req)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// The client slot must hold a client account
	req = createCaseReq(advocate, advocate)
	_, err = svc.CreateCase(admin.ID, domain.RoleAdmin, req)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// Duplicate case numbers are rejected
	req = createCaseReq(client, advocate)
	_, err = svc.CreateCase(admin.ID, domain.RoleAdmin, req)
	require.NoError(t, err)
	_, err = svc.CreateCase(admin.ID, domain.RoleAdmin, createCaseReq(client, advocate))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCaseVisibilityScopedByRole(t *testing.T) {
	db, svc, admin, advocate, client := setupCaseTest(t)
	outsider := seedUser(t, db, "outsider", domain.RoleClient, domain.StatusActive)

	created, err := svc.CreateCase(admin.ID, domain.RoleAdmin, createCaseReq(client, advocate))
	require.NoError(t, err)

	_, err = svc.GetCase(created.ID, client.ID, domain.RoleClient)
	assert.NoError(t, err)
	_, err = svc.GetCase(created.ID, advocate.ID, domain.RoleAdvocate)
	assert.NoError(t, err)
	_, err = svc.GetCase(created.ID, outsider.ID, domain.RoleClient)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// List scoping: outsider sees nothing, parties see the case, admin sees all
	cases, meta, err := svc.ListCases(outsider.ID, domain.RoleClient, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, cases)
	assert.Equal(t, int64(0), meta.Total)

	cases, _, err = svc.ListCases(client.ID, domain.RoleClient, 1, 20)
	require.NoError(t, err)
	assert.Len(t, cases, 1)

	cases, _, err = svc.ListCases(admin.ID, domain.RoleAdmin, 1, 20)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestUpdateStatusFollowsGraph(t *testing.T) {
	db, svc, admin, advocate, client := setupCaseTest(t)

	created, err := svc.CreateCase(admin.ID, domain.RoleAdmin, createCaseReq(client, advocate))
	require.NoError(t, err)

	// open -> in_progress is allowed
	updated, err := svc.UpdateStatus(created.ID, advocate.ID, domain.RoleAdvocate,
		&domain.UpdateCaseStatusRequest{Status: domain.CaseStatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, domain.CaseStatusInProgress, updated.Status)

	// in_progress -> open is not
	_, err = svc.UpdateStatus(created.ID, advocate.ID, domain.RoleAdvocate,
		&domain.UpdateCaseStatusRequest{Status: domain.CaseStatusOpen})
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	// clients cannot change status at all
	_, err = svc.UpdateStatus(created.ID, client.ID, domain.RoleClient,
		&domain.UpdateCaseStatusRequest{Status: domain.CaseStatusClosed})
	assert.ErrorIs(t, err, common.ErrForbidden)

	// a status change lands in the activity log
	var activities []domain.CaseActivity
	db.Where("case_id = ? AND activity_type = ?", created.ID, domain.ActivityStatusChange).Find(&activities)
	require.Len(t, activities, 1)
	assert.Contains(t, activities[0].Description, "open to in_progress")
}

func TestClosedCaseCanReopen(t *testing.T) {
	_, svc, admin, advocate, client := setupCaseTest(t)

	created, err := svc.CreateCase(admin.ID, domain.RoleAdmin, createCaseReq(client, advocate))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.ID, admin.ID, domain.RoleAdmin,
		&domain.UpdateCaseStatusRequest{Status: domain.CaseStatusClosed})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(created.ID, admin.ID, domain.RoleAdmin,
		&domain.UpdateCaseStatusRequest{Status: domain.CaseStatusOpen})
	require.NoError(t, err)
	assert.Equal(t, domain.CaseStatusOpen, updated.Status)
}

func TestRecordActivityValidation(t *testing.T) {
	_, svc, admin, advocate, client := setupCaseTest(t)

	created, err := svc.CreateCase(admin.ID, domain.RoleAdmin, createCaseReq(client, advocate))
	require.NoError(t, err)

	item, err := svc.RecordActivity(created.ID, advocate.ID, domain.RoleAdvocate,
		&domain.RecordActivityRequest{
			ActivityType: domain.ActivityHearing,
			Description:  "Preliminary hearing scheduled",
			ActivityDate: "2026-09-15",
		})
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityHearing, item.ActivityType)

	_, err = svc.RecordActivity(created.ID, advocate.ID, domain.RoleAdvocate,
		&domain.RecordActivityRequest{ActivityType: "party", Description: "nope"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	items, err := svc.ListActivities(created.ID, client.ID, domain.RoleClient)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
