package config

import (
	"os"
	"strconv"
	"time"
)

type ReviewConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewReviewConfig() *ReviewConfig {
	timeoutSec, err := strconv.Atoi(os.Getenv("OPENAI_TIMEOUT_SEC"))
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 30
	}
	return &ReviewConfig{
		BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   getEnv("OPENAI_MODEL", "gpt-4"),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

// Enabled reports whether an AI reviewer can be built.
func (c *ReviewConfig) Enabled() bool {
	return c.APIKey != ""
}
