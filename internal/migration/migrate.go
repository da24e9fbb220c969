package migration

import (
	"github.com/caseflow/caseflow-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all tables and seeds the default admin
// account when the users table is empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.Notification{},
		&domain.AuditLogEntry{},
		&domain.LegalCase{},
		&domain.CaseActivity{},
		&domain.Document{},
		&domain.Invoice{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count == 0 {
		return seedAdmin(db)
	}

	return nil
}

// seedAdmin inserts the bootstrap admin. The password must be changed
// after first login.
func seedAdmin(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     "admin",
		Email:        "admin@caseflow.local",
		FullName:     "System Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}

	return db.Create(admin).Error
}
