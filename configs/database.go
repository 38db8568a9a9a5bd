package configs

import (
	"fmt"
	"time"

	"acenumerik.fr/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the postgres connection pool. Connection failure is fatal.
func InitDB() *gorm.DB {
	c := Get()
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode, c.App.Timezone,
	)

	logLevel := logger.Warn
	if !c.IsProduction() {
		logLevel = logger.Info
	}

	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		configslog.Log.Fatal("Failed to connect to database", zap.String("host", c.DB.Host), zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Fatal("Failed to get sql.DB from gorm", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	configslog.SLog.Infof("Database connection established (%s:%s/%s)", c.DB.Host, c.DB.Port, c.DB.Name)
	return db
}

// GetDB returns the shared connection, initializing it on first use.
func GetDB() *gorm.DB {
	if db == nil {
		return InitDB()
	}
	return db
}

// CloseDB closes the shared connection.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Failed to get sql.DB for close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Failed to close database connection", zap.Error(err))
		return
	}
	configslog.SLog.Info("Database connection closed")
}
