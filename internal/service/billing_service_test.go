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

func setupBillingTest(t *testing.T) (*gorm.DB, BillingService, *domain.LegalCase, *domain.User, *domain.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.LegalCase{},
		&domain.Invoice{},
		&domain.AuditLogEntry{},
	))

	advocate := seedUser(t, db, "adv", domain.RoleAdvocate, domain.StatusActive)
	client := seedUser(t, db, "client", domain.RoleClient, domain.StatusActive)

	legalCase := &domain.LegalCase{
		CaseNumber: "CF-2026-100",
		Title:      "Estate Settlement",
		ClientID:   client.ID,
		AdvocateID: advocate.ID,
		Status:     domain.CaseStatusOpen,
	}
	require.NoError(t, db.Create(legalCase).Error)

	svc := NewBillingService(
		db,
		repository.NewInvoiceRepository(db),
		repository.NewCaseRepository(db),
		nil,
	)
	return db, svc, legalCase, advocate, client
}

func TestCreateInvoiceDerivesClientFromCase(t *testing.T) {
	db, svc, legalCase, _, client := setupBillingTest(t)

	invoice, err := svc.CreateInvoice(1, &domain.CreateInvoiceRequest{
		CaseID:  legalCase.ID,
		Amount:  150000,
		DueDate: "2026-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, client.ID, invoice.ClientID)
	assert.Equal(t, domain.InvoiceStatusIssued, invoice.Status)
	assert.NotEmpty(t, invoice.IssuedAt)

	var entries []domain.AuditLogEntry
	db.Where("target_type = ?", domain.AuditTargetInvoice).Find(&entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "invoice_issued", entries[0].Action)
}

func TestCreateInvoiceValidation(t *testing.T) {
	_, svc, legalCase, _, _ := setupBillingTest(t)

	_, err := svc.CreateInvoice(1, &domain.CreateInvoiceRequest{CaseID: legalCase.ID, Amount: 0})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.CreateInvoice(1, &domain.CreateInvoiceRequest{CaseID: 9999, Amount: 100})
	assert.ErrorIs(t, err, common.ErrCaseNotFound)

	_, err = svc.CreateInvoice(1, &domain.CreateInvoiceRequest{CaseID: legalCase.ID, Amount: 100, DueDate: "tomorrow"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMarkPaidOnlyFromIssued(t *testing.T) {
	db, svc, legalCase, _, _ := setupBillingTest(t)

	invoice, err := svc.CreateInvoice(1, &domain.CreateInvoiceRequest{
		CaseID: legalCase.ID,
		Amount: 50000,
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(invoice.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.NotEmpty(t, paid.PaidAt)

	// Paying twice is rejected and nothing else changes
	_, err = svc.MarkPaid(invoice.ID, 1)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	var auditCount int64
	db.Model(&domain.AuditLogEntry{}).Where("action = ?", "invoice_paid").Count(&auditCount)
	assert.Equal(t, int64(1), auditCount)
}

func TestInvoiceVisibility(t *testing.T) {
	db, svc, legalCase, advocate, client := setupBillingTest(t)
	outsider := seedUser(t, db, "outsider", domain.RoleClient, domain.StatusActive)

	_, err := svc.CreateInvoice(1, &domain.CreateInvoiceRequest{CaseID: legalCase.ID, Amount: 100})
	require.NoError(t, err)

	invoices, err := svc.ListByCase(legalCase.ID, client.ID, domain.RoleClient)
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	invoices, err = svc.ListByCase(legalCase.ID, advocate.ID, domain.RoleAdvocate)
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	_, err = svc.ListByCase(legalCase.ID, outsider.ID, domain.RoleClient)
	assert.ErrorIs(t, err, common.ErrForbidden)

	mine, meta, err := svc.ListForClient(client.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
	assert.Len(t, mine, 1)
}

func TestFinancialSummaryAggregation(t *testing.T) {
	_, svc, legalCase, _, _ := setupBillingTest(t)

	first, err := svc.CreateInvoice(1, &domain.CreateInvoiceRequest{CaseID: legalCase.ID, Amount: 100000})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(1, &domain.CreateInvoiceRequest{CaseID: legalCase.ID, Amount: 50000})
	require.NoError(t, err)

	_, err = svc.MarkPaid(first.ID, 1)
	require.NoError(t, err)

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(150000), summary.TotalBilled)
	assert.Equal(t, int64(100000), summary.TotalCollected)
	assert.Equal(t, int64(50000), summary.TotalOutstanding)
	assert.Equal(t, int64(1), summary.IssuedCount)
	assert.Equal(t, int64(1), summary.PaidCount)
}
