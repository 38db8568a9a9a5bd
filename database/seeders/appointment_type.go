package seeders

import (
	"errors"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SeedAppointmentTypes(db *gorm.DB) error {
	typesToSeed := []models.AppointmentType{
		{Name: "Appel découverte", Description: "Un premier échange pour comprendre votre projet.", DurationMinutes: 30, Color: "#2563EB", IsActive: true},
		{Name: "Audit digital", Description: "Analyse de votre présence en ligne et recommandations.", DurationMinutes: 60, Color: "#16A34A", IsActive: true},
		{Name: "Atelier stratégie", Description: "Session de travail sur votre feuille de route.", DurationMinutes: 90, Color: "#DB2777", IsActive: true},
	}

	var createdCount int
	errorOccurred := false

	configslog.SLog.Info("Seeding appointment types...")
	for _, t := range typesToSeed {
		var existing models.AppointmentType
		result := db.Where("name = ?", t.Name).First(&existing)
		if result.Error == nil {
			configslog.SLog.Debugf("Appointment type '%s' already exists, skipping", t.Name)
			continue
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			configslog.Log.Error("Failed to look up appointment type", zap.String("name", t.Name), zap.Error(result.Error))
			errorOccurred = true
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			configslog.Log.Error("Failed to create appointment type", zap.String("name", t.Name), zap.Error(err))
			errorOccurred = true
			continue
		}
		configslog.SLog.Infof("Appointment type '%s' created (ID: %d)", t.Name, t.ID)
		createdCount++
	}

	if errorOccurred {
		return errors.New("at least one appointment type could not be seeded")
	}
	configslog.SLog.Infof("Appointment types seeded (%d new)", createdCount)
	return nil
}
