package service

import (
	"context"
	"strings"
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

func setupDocumentTest(t *testing.T) (*gorm.DB, DocumentService, *domain.LegalCase) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.LegalCase{},
		&domain.Document{},
		&domain.CaseActivity{},
	))

	legalCase := &domain.LegalCase{
		CaseNumber: "CF-2026-200", Title: "Contract Review",
		ClientID: 10, AdvocateID: 20, Status: domain.CaseStatusOpen,
	}
	require.NoError(t, db.Create(legalCase).Error)

	// No object store wired; storage-dependent paths must fail cleanly
	svc := NewDocumentService(
		db,
		repository.NewDocumentRepository(db),
		repository.NewCaseRepository(db),
		nil,
	)
	return db, svc, legalCase
}

func TestDocumentListScopedToCaseParticipants(t *testing.T) {
	db, svc, legalCase := setupDocumentTest(t)

	require.NoError(t, db.Create(&domain.Document{
		CaseID: legalCase.ID, UploaderID: 20,
		FileName: "contract.pdf", StorageKey: "cases/1/contract.pdf",
		ContentType: "application/pdf", Size: 1024,
	}).Error)

	docs, err := svc.ListByCase(legalCase.ID, 10, domain.RoleClient)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "contract.pdf", docs[0].FileName)

	docs, err = svc.ListByCase(legalCase.ID, 99, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = svc.ListByCase(legalCase.ID, 99, domain.RoleClient)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.ListByCase(9999, 10, domain.RoleClient)
	assert.ErrorIs(t, err, common.ErrCaseNotFound)
}

func TestUploadWithoutStorageFailsCleanly(t *testing.T) {
	db, svc, legalCase := setupDocumentTest(t)

	_, err := svc.Upload(context.Background(), legalCase.ID, 20, domain.RoleAdvocate,
		"brief.docx", "application/octet-stream", 512, strings.NewReader("data"))
	require.Error(t, err)

	// Nothing was recorded
	var docCount int64
	db.Model(&domain.Document{}).Count(&docCount)
	assert.Equal(t, int64(0), docCount)
}
