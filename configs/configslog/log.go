package configslog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the structured logger used across the application.
	Log *zap.Logger
	// SLog is the sugared variant for printf-style messages.
	SLog *zap.SugaredLogger
)

func init() {
	// Packages may log before main calls InitLogger (tests, seeders).
	Log = zap.NewNop()
	SLog = Log.Sugar()
}

// InitLogger builds a JSON production logger when APP_ENV=production and a
// colored console logger otherwise.
func InitLogger() {
	var cfg zap.Config
	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(lvl)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic("logger could not be initialized: " + err.Error())
	}
	Log = logger
	SLog = logger.Sugar()
	zap.ReplaceGlobals(logger)
}

// SyncLogger flushes buffered entries. Call it with defer from main.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
