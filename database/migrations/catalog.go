package migrations

import (
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateCatalogTables covers the editorial content shown on the public site.
func MigrateCatalogTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating catalog tables...")
	err := db.AutoMigrate(
		&models.TeamMember{},
		&models.Testimonial{},
		&models.FAQ{},
		&models.PricingPlan{},
		&models.TrustedClient{},
		&models.Job{},
		&models.BlogPost{},
	)
	if err != nil {
		configslog.Log.Error("Failed to migrate catalog tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Catalog tables migrated successfully")
	return nil
}
