package config

import (
	"os"
	"strconv"
)

type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func NewLoggingConfig() *LoggingConfig {
	maxSize, err := strconv.Atoi(os.Getenv("LOG_MAX_SIZE_MB"))
	if err != nil {
		maxSize = 100
	}
	maxBackups, err := strconv.Atoi(os.Getenv("LOG_MAX_BACKUPS"))
	if err != nil {
		maxBackups = 3
	}
	maxAge, err := strconv.Atoi(os.Getenv("LOG_MAX_AGE_DAYS"))
	if err != nil {
		maxAge = 28
	}
	return &LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  maxSize,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAge,
	}
}
