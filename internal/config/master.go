package config

import "os"

type AppConfig struct {
	DebugMode       bool
	HTTPConfig      *HTTPConfig
	RedisConfig     *RedisConfig
	PostgresConfig  *PostgresConfig
	JwtConfig       *JwtConfig
	ExecutionConfig *ExecutionConfig
	ReviewConfig    *ReviewConfig
	RateLimitConfig *RateLimitConfig
	LoggingConfig   *LoggingConfig
	EventsConfig    *EventsConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:       os.Getenv("DEBUG_MODE") == "true",
		HTTPConfig:      NewHTTPConfig(),
		RedisConfig:     NewRedisConfig(),
		PostgresConfig:  NewPostgresConfig(),
		JwtConfig:       NewJwtConfig(),
		ExecutionConfig: NewExecutionConfig(),
		ReviewConfig:    NewReviewConfig(),
		RateLimitConfig: NewRateLimitConfig(),
		LoggingConfig:   NewLoggingConfig(),
		EventsConfig:    NewEventsConfig(),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
