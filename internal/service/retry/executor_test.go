package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

func fastExecutor(attempts int) *Executor {
	return New(logger.Nop(),
		WithMaxAttempts(attempts),
		WithJitter(time.Millisecond, 2*time.Millisecond),
		WithCooldown(time.Millisecond),
	)
}

func TestDoSuccessFirstAttempt(t *testing.T) {
	e := fastExecutor(3)
	calls := 0

	v, err := Do(context.Background(), e, "quote", func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 || calls != 1 {
		t.Fatalf("expected one call returning 42, got v=%d calls=%d", v, calls)
	}
}

func TestDoRecoversAfterTransientFailure(t *testing.T) {
	e := fastExecutor(3)
	calls := 0

	v, err := Do(context.Background(), e, "quote", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", models.NewTransportError("quote", errors.New("boom"))
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "ok" || calls != 3 {
		t.Fatalf("expected recovery on third call, got v=%q calls=%d", v, calls)
	}
}

func TestDoExhaustion(t *testing.T) {
	e := fastExecutor(3)
	calls := 0

	_, err := Do(context.Background(), e, "quote", func(context.Context) (int, error) {
		calls++
		return 0, models.ErrRateLimited
	})
	if !errors.Is(err, models.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestDoNotFoundIsNotRetried(t *testing.T) {
	e := fastExecutor(3)
	calls := 0

	_, err := Do(context.Background(), e, "quote", func(context.Context) (int, error) {
		calls++
		return 0, models.ErrNotFound
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, models.ErrExhausted) {
		t.Fatalf("not-found must not be reported as exhaustion")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestDoNonRetryableErrorReturnsImmediately(t *testing.T) {
	e := fastExecutor(3)
	calls := 0
	bad := errors.New("malformed symbol")

	_, err := Do(context.Background(), e, "quote", func(context.Context) (int, error) {
		calls++
		return 0, bad
	})
	if !errors.Is(err, bad) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if errors.Is(err, models.ErrExhausted) {
		t.Fatalf("non-retryable error must not be reported as exhaustion")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	e := New(logger.Nop(),
		WithMaxAttempts(5),
		WithCooldown(10*time.Second),
	)
	ctx, cancel := context.WithCancel(context.Background())

	start := time.Now()
	_, err := Do(ctx, e, "quote", func(context.Context) (int, error) {
		cancel()
		return 0, models.ErrRateLimited
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("cancellation should short-circuit the cooldown wait")
	}
}
