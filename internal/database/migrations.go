package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Editor{},
		&models.Manuscript{},
		&models.Reviewer{},
		&models.ReviewAssignment{},
		&models.AffiliationRecord{},
		&models.Collaboration{},
		&models.ConflictDeclaration{},
		&models.Invitation{},
		&models.ScheduledDispatch{},
	)
}

// SeedData inserts the system editor used as the inviter for automated campaigns.
func SeedData(db *gorm.DB) error {
	system := models.Editor{
		BaseModel: models.BaseModel{ID: models.SystemEditorID},
		Name:      "Editorial System",
		Email:     "system@reviewerdesk.local",
		IsActive:  true,
	}
	return db.Where(models.Editor{BaseModel: models.BaseModel{ID: system.ID}}).
		Attrs(system).
		FirstOrCreate(&models.Editor{}).Error
}
