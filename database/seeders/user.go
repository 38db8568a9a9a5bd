package seeders

import (
	"errors"

	"acenumerik.fr/configs"
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/accesscontrol"
	"acenumerik.fr/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedSystemUser creates the super admin from ADMIN_EMAIL / ADMIN_PASSWORD, or
// resets its role and password when the account already exists.
func SeedSystemUser(db *gorm.DB) error {
	cfg := configs.Get()
	if cfg.Auth.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD must be set to seed the super admin")
	}

	hashed, err := utils.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		configslog.Log.Error("Failed to hash super admin password", zap.Error(err))
		return err
	}

	var existing models.User
	result := db.Where("email = ?", cfg.Auth.AdminEmail).First(&existing)
	switch {
	case result.Error == nil:
		configslog.SLog.Infof("Super admin '%s' exists, refreshing credentials", cfg.Auth.AdminEmail)
		return db.Model(&existing).Updates(map[string]any{
			"password":  hashed,
			"role":      string(accesscontrol.RoleSuperAdmin),
			"is_active": true,
		}).Error
	case !errors.Is(result.Error, gorm.ErrRecordNotFound):
		configslog.Log.Error("Failed to look up super admin", zap.Error(result.Error))
		return result.Error
	}

	user := models.User{
		Name:     cfg.Auth.AdminName,
		Email:    cfg.Auth.AdminEmail,
		Password: hashed,
		Role:     string(accesscontrol.RoleSuperAdmin),
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Failed to create super admin", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Super admin '%s' created (ID: %d)", user.Email, user.ID)
	return nil
}
