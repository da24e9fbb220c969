package repository

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// CaseActivityRepository handles case event log persistence
type CaseActivityRepository struct {
	db *gorm.DB
}

// NewCaseActivityRepository creates a new CaseActivityRepository
func NewCaseActivityRepository(db *gorm.DB) *CaseActivityRepository {
	return &CaseActivityRepository{db: db}
}

// Create appends an activity entry
func (r *CaseActivityRepository) Create(activity *domain.CaseActivity) error {
	return r.db.Create(activity).Error
}

// ListByCase returns a case's activities, newest first
func (r *CaseActivityRepository) ListByCase(caseID int64) ([]domain.CaseActivity, error) {
	var activities []domain.CaseActivity
	err := r.db.Where("case_id = ?", caseID).
		Order("activity_date DESC, id DESC").
		Find(&activities).Error
	return activities, err
}
