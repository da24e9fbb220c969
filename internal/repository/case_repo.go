package repository

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// CaseRepository case data access interface
type CaseRepository interface {
	Create(c *domain.LegalCase) error
	FindByID(id int64) (*domain.LegalCase, error)
	ExistsByCaseNumber(caseNumber string) (bool, error)
	ListAll(page, limit int) ([]*domain.LegalCase, int64, error)
	ListForUser(userID int64, page, limit int) ([]*domain.LegalCase, int64, error)
	CountByStatus() (map[string]int64, error)
}

type caseRepository struct {
	db *gorm.DB
}

// NewCaseRepository creates a new CaseRepository
func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

// Create inserts a new case
func (r *caseRepository) Create(c *domain.LegalCase) error {
	return r.db.Create(c).Error
}

// FindByID finds a case by ID
func (r *caseRepository) FindByID(id int64) (*domain.LegalCase, error) {
	var c domain.LegalCase
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsByCaseNumber checks whether a case number is already registered
func (r *caseRepository) ExistsByCaseNumber(caseNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.LegalCase{}).
		Where("case_number = ?", caseNumber).
		Count(&count).Error
	return count > 0, err
}

// ListAll returns all cases, newest first (admin view)
func (r *caseRepository) ListAll(page, limit int) ([]*domain.LegalCase, int64, error) {
	var total int64
	if err := r.db.Model(&domain.LegalCase{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []*domain.LegalCase
	offset := (page - 1) * limit
	err := r.db.Order("id DESC").Offset(offset).Limit(limit).Find(&cases).Error
	return cases, total, err
}

// ListForUser returns cases where the user is client or advocate
func (r *caseRepository) ListForUser(userID int64, page, limit int) ([]*domain.LegalCase, int64, error) {
	query := r.db.Model(&domain.LegalCase{}).
		Where("client_id = ? OR advocate_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []*domain.LegalCase
	offset := (page - 1) * limit
	err := r.db.Where("client_id = ? OR advocate_id = ?", userID, userID).
		Order("id DESC").Offset(offset).Limit(limit).
		Find(&cases).Error
	return cases, total, err
}

// CountByStatus returns case counts grouped by status. The alias avoids
// reserved words (KEY is reserved in MySQL).
func (r *caseRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Grp   string `gorm:"column:grp"`
		Count int64  `gorm:"column:cnt"`
	}
	var rows []row
	err := r.db.Model(&domain.LegalCase{}).
		Select("status AS grp, COUNT(*) AS cnt").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Grp] = rw.Count
	}
	return out, nil
}
