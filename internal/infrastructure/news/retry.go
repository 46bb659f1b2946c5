package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/orris-inc/newsdigest/internal/infrastructure/ratelimit"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

const (
	// MaxAttemptsCap bounds every retry policy regardless of configuration.
	MaxAttemptsCap = 5

	DefaultMaxAttempts = 5
	DefaultBackoffBase = 5 * time.Second
)

// errRateLimited marks a single 429 answer. Only this error is retried.
var errRateLimited = errors.New("provider returned 429 Too Many Requests")

// RetryState is a step of the rate-limit retry loop.
type RetryState int

const (
	StateAttempting RetryState = iota
	StateWaitingToRetry
	StateExhausted
	StateSucceeded
)

func (s RetryState) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateWaitingToRetry:
		return "waiting_to_retry"
	case StateExhausted:
		return "exhausted"
	case StateSucceeded:
		return "succeeded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RetryPolicy describes the exponential backoff applied to 429 answers.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.MaxAttempts > MaxAttemptsCap {
		p.MaxAttempts = MaxAttemptsCap
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBackoffBase
	}
	return p
}

// backoff yields BaseDelay, 2*BaseDelay, 4*BaseDelay... and stops after
// MaxAttempts-1 waits.
func (p RetryPolicy) backoff() retry.Backoff {
	p = p.normalized()
	return retry.WithMaxRetries(uint64(p.MaxAttempts-1), retry.NewExponential(p.BaseDelay))
}

// Schedule lists the waits the policy would perform if every attempt hit 429.
func (p RetryPolicy) Schedule() []time.Duration {
	b := p.backoff()
	var delays []time.Duration
	for {
		d, stop := b.Next()
		if stop {
			return delays
		}
		delays = append(delays, d)
	}
}

// Retrier runs an operation through the retry state machine.
type Retrier struct {
	policy RetryPolicy
	sleep  ratelimit.Sleeper
	logger logger.Interface
}

func NewRetrier(policy RetryPolicy, sleep ratelimit.Sleeper, logger logger.Interface) *Retrier {
	if sleep == nil {
		sleep = ratelimit.Sleep
	}
	return &Retrier{
		policy: policy.normalized(),
		sleep:  sleep,
		logger: logger,
	}
}

// Do calls op until it succeeds, fails with anything other than a 429, or
// the attempt budget is spent. Exhaustion returns an error wrapping
// apperrors.ErrRateLimitExhausted.
func (r *Retrier) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	backoff := r.policy.backoff()
	state := StateAttempting
	attempts := 0

	for attempts <= r.policy.MaxAttempts {
		switch state {
		case StateAttempting:
			attempts++
			err := op(ctx)
			switch {
			case err == nil:
				state = StateSucceeded
			case errors.Is(err, errRateLimited):
				state = StateWaitingToRetry
			default:
				return err
			}

		case StateWaitingToRetry:
			delay, stop := backoff.Next()
			if stop {
				state = StateExhausted
				continue
			}
			r.logger.Warnw("rate limit hit, backing off",
				"operation", name,
				"attempt", attempts,
				"wait", delay,
			)
			if err := r.sleep(ctx, delay); err != nil {
				return err
			}
			state = StateAttempting

		case StateExhausted:
			r.logger.Errorw("max retries reached",
				"operation", name,
				"attempts", attempts,
			)
			return apperrors.NewRateLimitedError("rate limit retries exhausted",
				fmt.Sprintf("%s after %d attempts", name, attempts))

		case StateSucceeded:
			return nil
		}
	}

	return apperrors.NewRateLimitedError("rate limit retries exhausted",
		fmt.Sprintf("%s after %d attempts", name, attempts))
}
