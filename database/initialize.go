package database

import (
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/database/migrations"
	"acenumerik.fr/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type step struct {
	name string
	run  func(*gorm.DB) error
}

var migrationSteps = []step{
	{"users", migrations.MigrateUsersTable},
	{"appointments", migrations.MigrateAppointmentsTables},
	{"sections", migrations.MigrateSectionsTables},
	{"catalog", migrations.MigrateCatalogTables},
	{"leads", migrations.MigrateLeadsTables},
	{"cvs", migrations.MigrateCVsTable},
}

var seedSteps = []step{
	{"super admin", seeders.SeedSystemUser},
	{"appointment types", seeders.SeedAppointmentTypes},
	{"sections", seeders.SeedSections},
}

// Initialize runs the requested steps inside one transaction. Any failure
// rolls everything back.
func Initialize(db *gorm.DB, drop, migrate, seed bool) {
	if !drop && !migrate && !seed {
		configslog.SLog.Info("No -drop, -migrate or -seed flag given, nothing to do")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Failed to begin database transaction", zap.Error(tx.Error))
		return
	}

	committed := false
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Database initialization panicked", zap.Any("panic_info", r))
		}
		if !committed {
			configslog.SLog.Warn("Rolling back database initialization")
			if err := tx.Rollback().Error; err != nil && err != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Rollback failed", zap.Error(err))
			}
		}
	}()

	configslog.SLog.Info("Database initialization starting...")

	if drop {
		if err := migrations.DropAll(tx); err != nil {
			return
		}
	}
	if migrate {
		if err := runSteps(tx, "migration", migrationSteps); err != nil {
			return
		}
	}
	if seed {
		if err := runSteps(tx, "seeder", seedSteps); err != nil {
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		configslog.Log.Error("Commit failed", zap.Error(err))
		return
	}
	committed = true
	configslog.SLog.Info("Database initialization completed successfully")
}

func runSteps(tx *gorm.DB, kind string, steps []step) error {
	for _, s := range steps {
		configslog.SLog.Infof(" -> Running %s %s...", s.name, kind)
		if err := s.run(tx); err != nil {
			configslog.Log.Error("Database step failed", zap.String("kind", kind), zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	configslog.SLog.Infof("All %ss completed", kind)
	return nil
}
