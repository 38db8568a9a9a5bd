package migrations

import (
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateLeadsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating leads & lead_notes tables...")
	if err := db.AutoMigrate(&models.Lead{}, &models.LeadNote{}); err != nil {
		configslog.Log.Error("Failed to migrate leads & lead_notes tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Leads & lead_notes tables migrated successfully")
	return nil
}
