package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func TestRetryPolicy_ScheduleIsMonotonicAndBounded(t *testing.T) {
	tests := []struct {
		name   string
		policy RetryPolicy
		want   []time.Duration
	}{
		{
			name:   "defaults",
			policy: RetryPolicy{},
			want:   []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second},
		},
		{
			name:   "three attempts",
			policy: RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second},
			want:   []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:   "capped at five attempts",
			policy: RetryPolicy{MaxAttempts: 50, BaseDelay: time.Second},
			want:   []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second},
		},
		{
			name:   "single attempt never waits",
			policy: RetryPolicy{MaxAttempts: 1, BaseDelay: time.Second},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := tt.policy.Schedule()
			assert.Equal(t, tt.want, schedule)
			assert.LessOrEqual(t, len(schedule)+1, MaxAttemptsCap)
			for i := 1; i < len(schedule); i++ {
				assert.GreaterOrEqual(t, schedule[i], schedule[i-1])
			}
		})
	}
}

func TestRetrier_SucceedsAfterRateLimits(t *testing.T) {
	sleeper := &recordingSleeper{}
	retrier := NewRetrier(RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}, sleeper.Sleep, logger.NewNopLogger())

	calls := 0
	err := retrier.Do(context.Background(), "science", func(ctx context.Context) error {
		calls++
		if calls <= 3 {
			return errRateLimited
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.delays)
}

func TestRetrier_Exhausted(t *testing.T) {
	sleeper := &recordingSleeper{}
	retrier := NewRetrier(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}, sleeper.Sleep, logger.NewNopLogger())

	calls := 0
	err := retrier.Do(context.Background(), "science", func(ctx context.Context) error {
		calls++
		return errRateLimited
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRateLimitExhausted))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRateLimited))
	assert.Equal(t, 3, calls)
	assert.Len(t, sleeper.delays, 2)
}

func TestRetrier_NonRetryableErrorIsReturnedImmediately(t *testing.T) {
	sleeper := &recordingSleeper{}
	retrier := NewRetrier(RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}, sleeper.Sleep, logger.NewNopLogger())
	boom := &StatusError{StatusCode: 500}

	calls := 0
	err := retrier.Do(context.Background(), "world", func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestRetrier_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retrier := NewRetrier(RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour}, nil, logger.NewNopLogger())

	err := retrier.Do(ctx, "world", func(ctx context.Context) error {
		cancel()
		return errRateLimited
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryState_String(t *testing.T) {
	assert.Equal(t, "attempting", StateAttempting.String())
	assert.Equal(t, "waiting_to_retry", StateWaitingToRetry.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
}
