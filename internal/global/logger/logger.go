package logger

import (
	"gitlab.com/jobprep-2025.net/internal/adapter/logging"
	"gitlab.com/jobprep-2025.net/internal/config"
)

var Logger = logging.NewZapLogger()

// Init replaces the process logger with one built from cfg.
func Init(cfg *config.LoggingConfig) *logging.ZapLogger {
	Logger = logging.NewZapLoggerWithConfig(cfg)
	return Logger
}

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}
