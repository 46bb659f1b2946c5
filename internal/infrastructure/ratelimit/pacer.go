package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

// ErrBudgetWaitExceeded is returned when the shared budget stays exhausted
// longer than the pacer is willing to wait.
var ErrBudgetWaitExceeded = errors.New("shared request budget wait exceeded")

// Pacer is called before every provider request. It blocks as long as needed
// to keep the caller inside the provider's rate limit.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelayPacer enforces a fixed pause between successive requests. The
// first Wait returns immediately; every later Wait sleeps the full delay
// regardless of how the previous request ended.
type FixedDelayPacer struct {
	delay   time.Duration
	sleep   Sleeper
	started bool
}

func NewFixedDelayPacer(delay time.Duration, sleep Sleeper) *FixedDelayPacer {
	if sleep == nil {
		sleep = Sleep
	}
	return &FixedDelayPacer{delay: delay, sleep: sleep}
}

func (p *FixedDelayPacer) Wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return ctx.Err()
	}
	return p.sleep(ctx, p.delay)
}

// SharedBudgetPacer adds a cross-process budget on top of a local pacer.
type SharedBudgetPacer struct {
	local        Pacer
	limiter      RateLimiter
	key          string
	config       RateLimitConfig
	pollInterval time.Duration
	maxWait      time.Duration
	sleep        Sleeper
	logger       logger.Interface
}

type SharedBudgetOptions struct {
	Key          string
	Config       RateLimitConfig
	PollInterval time.Duration
	MaxWait      time.Duration
	Sleep        Sleeper
}

func NewSharedBudgetPacer(local Pacer, limiter RateLimiter, opts SharedBudgetOptions, logger logger.Interface) *SharedBudgetPacer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = 2 * time.Minute
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	return &SharedBudgetPacer{
		local:        local,
		limiter:      limiter,
		key:          opts.Key,
		config:       opts.Config,
		pollInterval: opts.PollInterval,
		maxWait:      opts.MaxWait,
		sleep:        opts.Sleep,
		logger:       logger,
	}
}

func (p *SharedBudgetPacer) Wait(ctx context.Context) error {
	if err := p.local.Wait(ctx); err != nil {
		return err
	}

	var waited time.Duration
	for {
		allowed, err := p.limiter.Allow(ctx, p.key, p.config)
		if err != nil {
			// Redis trouble must not block the digest; the local delay still applies.
			p.logger.Warnw("shared rate limiter unavailable, continuing with local pacing",
				"key", p.key,
				"error", err,
			)
			return nil
		}
		if allowed {
			return nil
		}
		if waited >= p.maxWait {
			return fmt.Errorf("%w: key %s after %s", ErrBudgetWaitExceeded, p.key, waited)
		}

		p.logger.Debugw("shared request budget exhausted, waiting",
			"key", p.key,
			"waited", waited,
		)
		if err := p.sleep(ctx, p.pollInterval); err != nil {
			return err
		}
		waited += p.pollInterval
	}
}
