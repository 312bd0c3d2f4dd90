package config

import (
	"os"
	"strconv"
	"time"
)

type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

func NewRateLimitConfig() *RateLimitConfig {
	limit, err := strconv.Atoi(os.Getenv("SUBMISSION_RATE_LIMIT"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	windowSec, err := strconv.Atoi(os.Getenv("SUBMISSION_RATE_WINDOW_SEC"))
	if err != nil || windowSec <= 0 {
		windowSec = 60
	}
	return &RateLimitConfig{
		Enabled: os.Getenv("SUBMISSION_RATE_LIMIT_DISABLED") != "true",
		Limit:   limit,
		Window:  time.Duration(windowSec) * time.Second,
	}
}
