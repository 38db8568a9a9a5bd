package migrations

import (
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateCVsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating cvs table...")
	if err := db.AutoMigrate(&models.CV{}); err != nil {
		configslog.Log.Error("Failed to migrate cvs table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("CVs table migrated successfully")
	return nil
}

// DropAll removes every application table, children first.
func DropAll(db *gorm.DB) error {
	configslog.SLog.Warn("Dropping all application tables...")
	err := db.Migrator().DropTable(
		&models.CV{},
		&models.LeadNote{},
		&models.Lead{},
		&models.Appointment{},
		&models.AppointmentType{},
		&models.SiteTemplate{},
		&models.SectionData{},
		&models.Section{},
		&models.BlogPost{},
		&models.Job{},
		&models.TrustedClient{},
		&models.PricingPlan{},
		&models.FAQ{},
		&models.Testimonial{},
		&models.TeamMember{},
		&models.User{},
	)
	if err != nil {
		configslog.Log.Error("Failed to drop tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("All application tables dropped")
	return nil
}
