package config

import (
	"os"
	"strconv"
	"time"
)

type ExecutionConfig struct {
	BaseURL          string
	APIKey           string
	APIHost          string
	PollAttempts     int
	PollInterval     time.Duration
	RequestTimeout   time.Duration
	MaxParallelCases int
}

func NewExecutionConfig() *ExecutionConfig {
	attempts, err := strconv.Atoi(os.Getenv("JUDGE0_POLL_ATTEMPTS"))
	if err != nil || attempts <= 0 {
		attempts = 10
	}
	intervalMs, err := strconv.Atoi(os.Getenv("JUDGE0_POLL_INTERVAL_MS"))
	if err != nil || intervalMs <= 0 {
		intervalMs = 1000
	}
	timeoutSec, err := strconv.Atoi(os.Getenv("JUDGE0_REQUEST_TIMEOUT_SEC"))
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 15
	}
	parallel, err := strconv.Atoi(os.Getenv("MAX_PARALLEL_TEST_CASES"))
	if err != nil || parallel < 0 {
		parallel = 0
	}
	return &ExecutionConfig{
		BaseURL:          getEnv("JUDGE0_API", "https://judge0-ce.p.rapidapi.com"),
		APIKey:           os.Getenv("JUDGE0_API_KEY"),
		APIHost:          getEnv("JUDGE0_API_HOST", "judge0-ce.p.rapidapi.com"),
		PollAttempts:     attempts,
		PollInterval:     time.Duration(intervalMs) * time.Millisecond,
		RequestTimeout:   time.Duration(timeoutSec) * time.Second,
		MaxParallelCases: parallel,
	}
}
