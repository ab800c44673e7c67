package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

// Executor wraps a single provider call with bounded retries, rate-limit
// cooldown and jittered backoff. It is provider-agnostic: the same policy
// applies to every adapter it wraps.
type Executor struct {
	maxAttempts    int
	attemptTimeout time.Duration
	jitterMin      time.Duration
	jitterMax      time.Duration
	cooldown       time.Duration
	logger         *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures Executor.
type Option func(*Executor)

// WithMaxAttempts sets the attempt limit.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithAttemptTimeout bounds each individual attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.attemptTimeout = d
	}
}

// WithJitter sets the backoff window applied after transport failures.
func WithJitter(min, max time.Duration) Option {
	return func(e *Executor) {
		e.jitterMin = min
		e.jitterMax = max
	}
}

// WithCooldown sets the fixed wait applied after a rate-limit signal.
func WithCooldown(d time.Duration) Option {
	return func(e *Executor) {
		e.cooldown = d
	}
}

// New creates an executor. Defaults: 3 attempts, 10s per attempt, 0.5-2s
// jitter, 5s rate-limit cooldown.
func New(l *logger.Logger, opts ...Option) *Executor {
	e := &Executor{
		maxAttempts:    3,
		attemptTimeout: 10 * time.Second,
		jitterMin:      500 * time.Millisecond,
		jitterMax:      2 * time.Second,
		cooldown:       5 * time.Second,
		logger:         l,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do runs call until it succeeds, yields an error models.Retryable rejects,
// or the attempt limit is reached. Non-retryable errors, models.ErrNotFound
// included, are returned as-is without retrying. Exhaustion is reported as
// models.ErrExhausted wrapping the last failure; the caller decides whether
// that means fallback.
//
// Backoff waits select on ctx, so a caller-imposed deadline bounds the whole
// sequence, not just one attempt.
func Do[T any](ctx context.Context, e *Executor, op string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		actx := ctx
		cancel := context.CancelFunc(func() {})
		if e.attemptTimeout > 0 {
			actx, cancel = context.WithTimeout(ctx, e.attemptTimeout)
		}
		v, err := call(actx)
		cancel()

		if err == nil {
			return v, nil
		}
		if !models.Retryable(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		lastErr = err

		if attempt == e.maxAttempts {
			break
		}

		var delay time.Duration
		if errors.Is(err, models.ErrRateLimited) {
			delay = e.cooldown
			e.logger.Warn("provider rate limited, cooling down",
				logger.String("op", op),
				logger.Int("attempt", attempt),
				logger.Duration("cooldown", delay),
			)
		} else {
			delay = e.jitter()
			e.logger.Warn("attempt failed, backing off",
				logger.String("op", op),
				logger.Int("attempt", attempt),
				logger.Duration("backoff", delay),
				logger.Error(err),
			)
		}

		if err := e.wait(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w: %s failed %d times, last: %v", models.ErrExhausted, op, e.maxAttempts, lastErr)
}

// jitter draws a delay uniformly from [jitterMin, jitterMax].
func (e *Executor) jitter() time.Duration {
	span := e.jitterMax - e.jitterMin
	if span <= 0 {
		return e.jitterMin
	}
	e.mu.Lock()
	f := e.rng.Float64()
	e.mu.Unlock()
	return e.jitterMin + time.Duration(f*float64(span))
}

// wait blocks for d or until ctx is done, whichever comes first.
func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
