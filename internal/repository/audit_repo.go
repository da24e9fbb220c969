package repository

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// AuditLogRepository handles audit trail persistence
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// GetList returns paginated audit entries, newest first, optionally
// filtered by target type
func (r *AuditLogRepository) GetList(targetType string, offset, limit int) ([]domain.AuditLogEntry, int64, error) {
	query := r.db.Model(&domain.AuditLogEntry{})
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.AuditLogEntry
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
