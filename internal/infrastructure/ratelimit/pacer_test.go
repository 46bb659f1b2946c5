package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

type mockRateLimiter struct {
	mock.Mock
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	args := m.Called(ctx, key, config)
	return args.Bool(0), args.Error(1)
}

func (m *mockRateLimiter) Count(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRateLimiter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestFixedDelayPacer_SkipsFirstWait(t *testing.T) {
	sleeper := &recordingSleeper{}
	pacer := NewFixedDelayPacer(7*time.Second, sleeper.Sleep)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, pacer.Wait(ctx))
	}

	assert.Equal(t, []time.Duration{7 * time.Second, 7 * time.Second}, sleeper.delays)
}

func TestFixedDelayPacer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pacer := NewFixedDelayPacer(time.Hour, nil)
	assert.ErrorIs(t, pacer.Wait(ctx), context.Canceled)
}

func TestSharedBudgetPacer_WaitsUntilAllowed(t *testing.T) {
	sleeper := &recordingSleeper{}
	limiter := new(mockRateLimiter)
	cfg := RateLimitConfig{RequestsPerMinute: 5}

	limiter.On("Allow", mock.Anything, "nyt", cfg).Return(false, nil).Twice()
	limiter.On("Allow", mock.Anything, "nyt", cfg).Return(true, nil).Once()

	pacer := NewSharedBudgetPacer(
		NewFixedDelayPacer(0, sleeper.Sleep),
		limiter,
		SharedBudgetOptions{Key: "nyt", Config: cfg, PollInterval: time.Second, Sleep: sleeper.Sleep},
		logger.NewNopLogger(),
	)

	require.NoError(t, pacer.Wait(context.Background()))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeper.delays)
	limiter.AssertExpectations(t)
}

func TestSharedBudgetPacer_GivesUp(t *testing.T) {
	sleeper := &recordingSleeper{}
	limiter := new(mockRateLimiter)
	limiter.On("Allow", mock.Anything, "nyt", mock.Anything).Return(false, nil)

	pacer := NewSharedBudgetPacer(
		NewFixedDelayPacer(0, sleeper.Sleep),
		limiter,
		SharedBudgetOptions{Key: "nyt", PollInterval: time.Second, MaxWait: 3 * time.Second, Sleep: sleeper.Sleep},
		logger.NewNopLogger(),
	)

	err := pacer.Wait(context.Background())
	assert.ErrorIs(t, err, ErrBudgetWaitExceeded)
	assert.Len(t, sleeper.delays, 3)
}

func TestSharedBudgetPacer_FailsOpenOnLimiterError(t *testing.T) {
	limiter := new(mockRateLimiter)
	limiter.On("Allow", mock.Anything, "nyt", mock.Anything).Return(false, errors.New("connection refused"))

	pacer := NewSharedBudgetPacer(
		NewFixedDelayPacer(0, nil),
		limiter,
		SharedBudgetOptions{Key: "nyt"},
		logger.NewNopLogger(),
	)

	assert.NoError(t, pacer.Wait(context.Background()))
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
