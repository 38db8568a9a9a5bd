package migrations

import (
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateAppointmentsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating appointment_types & appointments tables...")
	err := db.AutoMigrate(&models.AppointmentType{}, &models.Appointment{})
	if err != nil {
		configslog.Log.Error("Failed to migrate appointment_types & appointments tables", zap.Error(err))
		return err
	}

	// Day lookups filter on start_time within a status subset.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_appointments_start_status ON appointments (start_time, status) WHERE deleted_at IS NULL`).Error; err != nil {
		configslog.Log.Error("Failed to create appointments start/status index", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Appointment_types & appointments tables migrated successfully")
	return nil
}
