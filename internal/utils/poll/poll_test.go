package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilReturnsFirstTerminalValue(t *testing.T) {
	calls := 0
	value, err := Until(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}, func(v int) bool { return v == 3 }, 10, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, value)
	assert.Equal(t, 3, calls)
}

func TestUntilExhaustsAttempts(t *testing.T) {
	calls := 0
	value, err := Until(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "processing", nil
	}, func(v string) bool { return v == "done" }, 4, time.Millisecond)

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, "processing", value)
	assert.Equal(t, 4, calls)
}

func TestUntilStopsOnFetchError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := Until(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	}, func(int) bool { return false }, 10, time.Millisecond)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestUntilSleepsBeforeEachAttempt(t *testing.T) {
	interval := 20 * time.Millisecond
	start := time.Now()
	_, err := Until(context.Background(), func(ctx context.Context) (bool, error) {
		return false, nil
	}, func(bool) bool { return false }, 3, interval)

	require.ErrorIs(t, err, ErrExhausted)
	assert.GreaterOrEqual(t, time.Since(start), 3*interval)
}

func TestUntilHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Until(ctx, func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	}, func(int) bool { return true }, 5, time.Hour)

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestUntilRejectsEmptyBudget(t *testing.T) {
	_, err := Until(context.Background(), func(ctx context.Context) (int, error) {
		return 1, nil
	}, func(int) bool { return true }, 0, time.Millisecond)

	require.ErrorIs(t, err, ErrExhausted)
}
