package repository

import "gorm.io/gorm"

// AutoMigrate creates the empanelment schema: applications,
// application_files, application_history, users and verification_codes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&applicationModel{},
		&fileModel{},
		&auditModel{},
		&userModel{},
		&VerificationCode{},
	)
}
