package repository

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository handles document metadata persistence
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// FindByID finds a document by ID
func (r *DocumentRepository) FindByID(id int64) (*domain.Document, error) {
	var doc domain.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByCase returns a case's documents, newest first
func (r *DocumentRepository) ListByCase(caseID int64) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.Where("case_id = ?", caseID).
		Order("id DESC").
		Find(&docs).Error
	return docs, err
}
