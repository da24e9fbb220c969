package repository

import (
	"strings"

	"github.com/caseflow/caseflow-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id int64) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	FindAll(filter domain.UserFilter, page, limit int) ([]*domain.User, int64, error)
	UpdateFields(id int64, fields map[string]interface{}) error
	CountByStatus() (map[string]int64, error)
	CountByRole() (map[string]int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user
func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(id int64) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername checks whether a username is taken
func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks whether an email is taken
func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// FindAll returns a filtered, paginated user list. The filter object
// enumerates recognized keys; nothing else reaches the query.
func (r *userRepository) FindAll(filter domain.UserFilter, page, limit int) ([]*domain.User, int64, error) {
	query := r.db.Model(&domain.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*domain.User
	offset := (page - 1) * limit
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// UpdateFields applies a partial update to a user
func (r *userRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error
}

// CountByStatus returns user counts grouped by status
func (r *userRepository) CountByStatus() (map[string]int64, error) {
	return r.countGrouped("status")
}

// CountByRole returns user counts grouped by role
func (r *userRepository) CountByRole() (map[string]int64, error) {
	return r.countGrouped("role")
}

// countGrouped aggregates row counts per distinct value of column.
// The alias avoids reserved words (KEY is reserved in MySQL).
func (r *userRepository) countGrouped(column string) (map[string]int64, error) {
	type row struct {
		Grp   string `gorm:"column:grp"`
		Count int64  `gorm:"column:cnt"`
	}
	var rows []row
	err := r.db.Model(&domain.User{}).
		Select(column + " AS grp, COUNT(*) AS cnt").
		Group(column).
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
