package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/storage"
	"gorm.io/gorm"
)

const presignExpiry = 15 * time.Minute

// maxDocumentSize caps uploads at 25 MiB
const maxDocumentSize = 25 << 20

// DocumentService business logic for case documents
type DocumentService interface {
	Upload(ctx context.Context, caseID, uploaderID int64, uploaderRole string, fileName, contentType string, size int64, body io.Reader) (*domain.DocumentResponse, error)
	ListByCase(caseID, viewerID int64, viewerRole string) ([]*domain.DocumentResponse, error)
	GetDownloadURL(ctx context.Context, documentID, viewerID int64, viewerRole string) (*domain.DocumentURLResponse, error)
}

type documentService struct {
	db       *gorm.DB
	docRepo  *repository.DocumentRepository
	caseRepo repository.CaseRepository
	store    *storage.S3Client
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	db *gorm.DB,
	docRepo *repository.DocumentRepository,
	caseRepo repository.CaseRepository,
	store *storage.S3Client,
) DocumentService {
	return &documentService{
		db:       db,
		docRepo:  docRepo,
		caseRepo: caseRepo,
		store:    store,
	}
}

// Upload stores a file in object storage and records its metadata plus a
// case activity in one transaction. The object is uploaded first; if the
// database writes fail the orphaned object is deleted best-effort.
func (s *documentService) Upload(ctx context.Context, caseID, uploaderID int64, uploaderRole string, fileName, contentType string, size int64, body io.Reader) (*domain.DocumentResponse, error) {
	if s.store == nil {
		return nil, fmt.Errorf("document storage is not configured")
	}
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrInvalidInput)
	}
	if size <= 0 || size > maxDocumentSize {
		return nil, fmt.Errorf("%w: file size must be between 1 byte and 25 MiB", common.ErrInvalidInput)
	}

	if err := s.authorize(caseID, uploaderID, uploaderRole); err != nil {
		return nil, err
	}

	key := storage.GenerateKey(fmt.Sprintf("cases/%d", caseID), fileName)
	result, err := s.store.Upload(ctx, key, body, contentType, size)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	doc := &domain.Document{
		CaseID:      caseID,
		UploaderID:  uploaderID,
		FileName:    fileName,
		StorageKey:  result.Key,
		ContentType: contentType,
		Size:        size,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		activity := &domain.CaseActivity{
			CaseID:       caseID,
			UserID:       uploaderID,
			ActivityType: domain.ActivityDocument,
			Description:  fmt.Sprintf("Document uploaded: %s", fileName),
			ActivityDate: time.Now(),
		}
		return tx.Create(activity).Error
	})
	if err != nil {
		_ = s.store.Delete(ctx, result.Key)
		return nil, fmt.Errorf("document record failed: %w", err)
	}

	return doc.ToResponse(), nil
}

// ListByCase returns a case's documents
func (s *documentService) ListByCase(caseID, viewerID int64, viewerRole string) ([]*domain.DocumentResponse, error) {
	if err := s.authorize(caseID, viewerID, viewerRole); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByCase(caseID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = docs[i].ToResponse()
	}
	return responses, nil
}

// GetDownloadURL returns a short-lived presigned URL for preview/download
func (s *documentService) GetDownloadURL(ctx context.Context, documentID, viewerID int64, viewerRole string) (*domain.DocumentURLResponse, error) {
	if s.store == nil {
		return nil, fmt.Errorf("document storage is not configured")
	}

	doc, err := s.docRepo.FindByID(documentID)
	if err != nil {
		return nil, common.ErrDocumentNotFound
	}

	if err := s.authorize(doc.CaseID, viewerID, viewerRole); err != nil {
		return nil, err
	}

	url, err := s.store.GetPresignedURL(ctx, doc.StorageKey, presignExpiry)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentURLResponse{
		URL:       url,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

// authorize checks the user may access the case's documents
func (s *documentService) authorize(caseID, userID int64, role string) error {
	legalCase, err := s.caseRepo.FindByID(caseID)
	if err != nil {
		return common.ErrCaseNotFound
	}
	if role != domain.RoleAdmin && !legalCase.Involves(userID) {
		return common.ErrForbidden
	}
	return nil
}
