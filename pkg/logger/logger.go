package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger instance. It is a no-op logger until Init runs,
// so packages used from tests or tools never need to check for nil.
var Log = zap.NewNop()

// Init initializes the global logger for the given environment.
// "production" gets JSON structured logging at info level; anything else
// gets colorful console output at debug level.
func Init(environment string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	built, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		return err
	}

	Log = built.With(zap.String("service", "restaurant-directory"))
	return nil
}

// Sync flushes any buffered log entries.
// Should be called before application exits
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
