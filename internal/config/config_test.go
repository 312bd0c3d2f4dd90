package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecutionConfigDefaults(t *testing.T) {
	t.Setenv("JUDGE0_API", "")
	t.Setenv("JUDGE0_POLL_ATTEMPTS", "")
	t.Setenv("JUDGE0_POLL_INTERVAL_MS", "abc")

	cfg := NewExecutionConfig()
	assert.Equal(t, "https://judge0-ce.p.rapidapi.com", cfg.BaseURL)
	assert.Equal(t, 10, cfg.PollAttempts)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 0, cfg.MaxParallelCases)
}

func TestExecutionConfigFromEnv(t *testing.T) {
	t.Setenv("JUDGE0_API", "http://judge0:2358")
	t.Setenv("JUDGE0_POLL_ATTEMPTS", "3")
	t.Setenv("JUDGE0_POLL_INTERVAL_MS", "250")
	t.Setenv("MAX_PARALLEL_TEST_CASES", "4")

	cfg := NewExecutionConfig()
	assert.Equal(t, "http://judge0:2358", cfg.BaseURL)
	assert.Equal(t, 3, cfg.PollAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 4, cfg.MaxParallelCases)
}

func TestRateLimitConfig(t *testing.T) {
	t.Setenv("SUBMISSION_RATE_LIMIT", "")
	t.Setenv("SUBMISSION_RATE_WINDOW_SEC", "")
	t.Setenv("SUBMISSION_RATE_LIMIT_DISABLED", "")

	cfg := NewRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
}

func TestReviewConfigEnabled(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	assert.False(t, NewReviewConfig().Enabled())

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := NewReviewConfig()
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "gpt-4", cfg.Model)
}
