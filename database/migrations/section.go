package migrations

import (
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateSectionsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating sections, section_data & site_templates tables...")
	err := db.AutoMigrate(&models.Section{}, &models.SectionData{}, &models.SiteTemplate{})
	if err != nil {
		configslog.Log.Error("Failed to migrate sections tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Sections tables migrated successfully")
	return nil
}
